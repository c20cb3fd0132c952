package common

// Version is the release version of the pixelgrid service.
const Version = "v0.1.0"
