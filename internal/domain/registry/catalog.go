package registry

import "github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"

// mobileSize approximates the 95vw x 80vh mobile frame on a 380x800 phone
var mobileSize = types.Size{Width: 360, Height: 640}

func size(w, h int) types.Size { return types.Size{Width: w, Height: h} }

// DefaultCatalog returns the built-in apps in desktop order
func DefaultCatalog() []types.AppDescriptor {
	return []types.AppDescriptor{
		{ID: "notepad", Title: "Resume.txt", Icon: "lucide:file-text", Component: "Notepad", DefaultSize: size(800, 600), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "explorer", Title: "Project Files", Icon: "lucide:folder-open", Component: "Explorer", DefaultSize: size(900, 550), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "terminal", Title: "Terminal", Icon: "lucide:terminal", Component: "Terminal", DefaultSize: size(700, 450), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "calculator", Title: "Calculator", Icon: "svg:calculator", Component: "Calculator", DefaultSize: size(320, 520), MobileSize: size(320, 640), Category: types.CategoryApp},
		{ID: "calendar", Title: "Calendar", Icon: "lucide:calendar", Component: "Calendar", DefaultSize: size(800, 520), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "musicplayer", Title: "Music Player", Icon: "lucide:music", Component: "MusicPlayer", DefaultSize: size(850, 500), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "browser", Title: "Akadilium Browser", Icon: "lucide:globe", Component: "Browser", DefaultSize: size(900, 600), MobileSize: mobileSize, Category: types.CategoryApp},
		{ID: "neonDrift", Title: "Neon Drift", Icon: "img:/neon-drift.png", Component: "NeonDrift", DefaultSize: size(900, 600), MobileSize: mobileSize, Category: types.CategoryGame},
		{ID: "systemOverride", Title: "Cyber Lock", Icon: "img:/cyber-lock.png", Component: "SystemOverride", DefaultSize: size(900, 650), MobileSize: mobileSize, Category: types.CategoryGame},
		{ID: "devTycoon", Title: "Dev Tycoon Pro", Icon: "img:/dev-tycoon.png", Component: "DevTycoon", DefaultSize: size(1200, 700), MobileSize: mobileSize, Category: types.CategoryGame},
		{ID: "github", Title: "GitHub", Icon: "lucide:github", Component: "ExternalLink", DefaultSize: size(500, 300), MobileSize: mobileSize, IsExternal: true, URL: "https://github.com/aqadil", Category: types.CategoryLink},
		{ID: "telegram", Title: "Telegram", Icon: "lucide:send", Component: "ExternalLink", DefaultSize: size(500, 300), MobileSize: mobileSize, IsExternal: true, URL: "https://t.me/aqadil", Category: types.CategoryLink},
		{ID: "akadiledu", Title: "AkadilEDU", Icon: "img:/logo.png", Component: "ExternalLink", DefaultSize: size(500, 300), MobileSize: mobileSize, IsExternal: true, URL: "https://akadiledu.com", Category: types.CategoryLink},
		{ID: "settings", Title: "Settings", Icon: "lucide:settings", Component: "Settings", DefaultSize: size(960, 620), MobileSize: mobileSize, Category: types.CategorySystem},
		{ID: "contact", Title: "Contact Me", Icon: "lucide:credit-card", Component: "ContactWallet", DefaultSize: size(800, 600), MobileSize: mobileSize, Category: types.CategorySystem},
		{ID: "donate", Title: "Support / Donate", Icon: "lucide:heart", Component: "Donate", DefaultSize: size(720, 520), MobileSize: mobileSize, Category: types.CategorySystem},
	}
}
