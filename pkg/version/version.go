package version

// Version is overridden at build time with
// -ldflags "-X github.com/nicobailon/debugdeck/pkg/version.Version=v1.2.3".
var Version = "dev"
