package version

// Version is the docsync release, overridden at build time with
// -ldflags "-X github.com/xnat/docsync/internal/version.Version=...".
var Version = "0.1.0"
