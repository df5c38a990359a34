package model

// Version is the release tag checked against GitHub by --update.
const Version = "0.3.0"
