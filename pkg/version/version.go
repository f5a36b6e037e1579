package version

// Release version injected by the linker (-X github.com/cowprotocol/token-lists/pkg/version.version=...).
var version = "development"

func Version() string {
	if version == "" {
		panic("binary compiled with empty version")
	}
	return version
}
