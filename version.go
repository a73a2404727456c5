package main

// Version is the release version reported by the web status endpoint and
// the interactive banner.
const Version = "0.2.0"
