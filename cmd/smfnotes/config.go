package main

import "os"

const (
	outDirEnv   = "SMFNOTES_OUT_DIR"
	addrEnv     = "SMFNOTES_ADDR"
	defaultOut  = "./out"
	defaultAddr = ":8080"
)

// outDir is where recordings are saved.
func outDir() string {
	if path := os.Getenv(outDirEnv); path != "" {
		return path
	}
	return defaultOut
}

func listenAddr() string {
	if addr := os.Getenv(addrEnv); addr != "" {
		return addr
	}
	return defaultAddr
}
