package version

// Version is overridden at build time with -ldflags "-X github.com/himattm/contextline/internal/version.Version=..."
var Version = "0.3.0-dev"
