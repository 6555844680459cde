package scanner

// Defaults applied when the corresponding Config field is nil. A non-nil
// empty slice disables that rule set entirely.
var (
	DefaultExcludedDirs = []string{".git", "__pycache__", "venv", "node_modules", ".hg", ".svn"}

	DefaultExcludedFiles = []string{"*.log", "*.tmp", "*.swp", "*.bak"}

	DefaultBinaryExtensions = []string{
		// Compiled code
		".pyc", ".pyo", ".o", ".so", ".obj", ".dll", ".exe", ".class", ".jar",
		// Archives
		".zip", ".tar", ".gz", ".bz2", ".rar", ".7z", ".iso",
		// Images
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".ico",
		// Audio/Video
		".mp3", ".wav", ".ogg", ".mp4", ".avi", ".mov", ".flv", ".mkv",
		// Documents
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt",
		// Other
		".db", ".sqlite", ".dat",
	}
)
