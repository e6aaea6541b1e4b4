// Command obfuscate encrypts every string literal of a source file in
// place. It runs as a build step and aborts the build on any I/O error.
package main

import (
	"os"

	"github.com/Hara602/scriptGuard/internal/obfuscate"
	"github.com/Hara602/scriptGuard/internal/sysutil"
	"go.uber.org/zap"
)

// defaultTarget 构建流水线中的源文件
const defaultTarget = "src-tauri/main.rs"

func main() {
	sysutil.InitLogger("info")
	defer sysutil.Log.Sync()

	target := defaultTarget
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	if err := obfuscate.File(target); err != nil {
		sysutil.Log.Panic("obfuscation failed", zap.String("path", target), zap.Error(err))
	}
	sysutil.LogSugar.Infof("string literals obfuscated: %s", target)
}
