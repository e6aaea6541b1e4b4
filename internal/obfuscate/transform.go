// Package obfuscate rewrites the string literals of a source file into
// AES-256-ECB ciphertext at build time.
//
// Keys are generated per literal and discarded, so the output cannot be
// decoded. The rewrite is one-way.
package obfuscate

import (
	"crypto/aes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Hara602/scriptGuard/internal/analysis"
)

// KeySize AES-256
const KeySize = 32

// literalPattern 双引号字符串，允许反斜杠转义
var literalPattern = regexp.MustCompile(`"([^"\\]*(\\.[^"\\]*)*)"`)

// EncryptLiteral 用新生成的随机密钥加密字符串内容，返回 base64 密文
func EncryptLiteral(content string) (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return encryptWithKey(key, []byte(content))
}

// encryptWithKey 零填充到 16 字节整数倍后按块 ECB 加密
func encryptWithKey(key, plain []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("aes cipher: %w", err)
	}

	size := block.BlockSize()
	padded := make([]byte, (len(plain)+size-1)/size*size)
	copy(padded, plain)

	out := make([]byte, len(padded))
	for off := 0; off < len(padded); off += size {
		block.Encrypt(out[off:off+size], padded[off:off+size])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Transform 替换源码中所有字符串字面量。
// 每个匹配按文本全局替换，所以相同的字面量只会被第一次替换的结果覆盖。
func Transform(src []byte) ([]byte, error) {
	content := string(src)
	for _, lit := range literalPattern.FindAllString(content, -1) {
		enc, err := EncryptLiteral(strings.Trim(lit, `"`))
		if err != nil {
			return nil, err
		}
		content = strings.ReplaceAll(content, lit, `"`+enc+`"`)
	}
	return []byte(content), nil
}

// File 原地改写源文件，任何读写错误都直接返回
func File(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}

	res, err := analysis.InspectFile(path)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}
	if res.IsBinary {
		return fmt.Errorf("refusing to rewrite %s: %s", path, res.Message)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}
	out, err := Transform(src)
	if err != nil {
		return fmt.Errorf("transform %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("unable to write file %s: %w", path, err)
	}
	return nil
}
