package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .envファイルがあれば読み込む（なくても続行）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: .env could not be loaded: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
