package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// Size limits
const (
	MaxIDLength       = 128
	MaxTitleLength    = 256
	MaxHandleLength   = 512
	MaxPropsSize      = 64 * 1024 // 64KB - dynamic window props
	MaxPropsDepth     = 10
	MaxViewportLength = 16384 // Largest accepted viewport edge in pixels
)

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// CategoryPattern allows lowercase letters, numbers, hyphens
	CategoryPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateCategory validates a category field
func ValidateCategory(category string, required bool) error {
	if err := ValidateString(category, "category", 0, 64, required); err != nil {
		return err
	}

	if category != "" && !CategoryPattern.MatchString(category) {
		return fmt.Errorf("category must contain only lowercase letters, numbers, and hyphens")
	}

	return nil
}

// ValidateViewport checks a reported viewport
func ValidateViewport(vp types.Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", vp.Width, vp.Height)
	}
	if vp.Width > MaxViewportLength || vp.Height > MaxViewportLength {
		return fmt.Errorf("viewport %dx%d exceeds maximum %d", vp.Width, vp.Height, MaxViewportLength)
	}
	return nil
}

// ValidateInstanceSpec validates a dynamic window spec. The id may be
// empty when the caller wants one generated.
func ValidateInstanceSpec(spec types.InstanceSpec) error {
	if err := ValidateID(spec.ID, "spec.id", false); err != nil {
		return err
	}
	if err := ValidateString(spec.Title, "spec.title", 1, MaxTitleLength, true); err != nil {
		return err
	}
	if err := ValidateString(string(spec.Icon), "spec.icon", 0, MaxHandleLength, false); err != nil {
		return err
	}
	if err := ValidateString(string(spec.Component), "spec.component", 0, MaxHandleLength, false); err != nil {
		return err
	}
	return ValidateProps(spec.Props)
}

// ValidateProps checks the size and nesting depth of dynamic window props
func ValidateProps(props map[string]interface{}) error {
	if props == nil {
		return nil
	}

	data, err := sonic.Marshal(props)
	if err != nil {
		return fmt.Errorf("spec.props is not serializable: %w", err)
	}
	if len(data) > MaxPropsSize {
		return fmt.Errorf("spec.props size %d bytes exceeds maximum %d bytes", len(data), MaxPropsSize)
	}

	return checkDepth(props, 0, MaxPropsDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("spec.props nesting depth exceeds maximum %d", maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}
