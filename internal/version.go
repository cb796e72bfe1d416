package internal

// Version is the geet release version.
const Version = "0.4.0"
