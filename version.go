package video

// Library version, exposed through the boundary shell.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version returns the library version string.
func Version() string {
	return "0.1.0"
}
