package settings

// set by -ldflags "-X github.com/liut/cryptopulse/pkg/settings.version=..."
var version = "dev"
