package version

// Commit 由构建时 -ldflags "-X war-map/internal/version.Commit=..." 注入
var Commit = "dev"
