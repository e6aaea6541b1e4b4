package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// headSize 262 bytes 是 filetype 库建议的最佳长度
const headSize = 262

// Result 源文件检测结果
type Result struct {
	IsBinary bool   // 文件头匹配到已知二进制格式
	Kind     string // 识别出的扩展名, 未知时为 "unknown"
	MIME     string
	Message  string
}

// InspectHead 根据文件头判断是否为二进制格式。
// 纯文本 (源码) 在 filetype 中表现为 Unknown。
func InspectHead(head []byte) Result {
	if len(head) == 0 {
		return Result{Kind: "unknown", Message: "Empty file"}
	}
	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown {
		return Result{Kind: "unknown", Message: "Unknown binary signature (likely text)"}
	}
	return Result{
		IsBinary: true,
		Kind:     kind.Extension,
		MIME:     kind.MIME.Value,
		Message:  fmt.Sprintf("Header matches binary type '%s'", kind.Extension),
	}
}

// InspectFile 读取文件头并检测
func InspectFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file failed: %w", err)
	}
	defer file.Close()

	head := make([]byte, headSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read file head failed: %w", err)
	}
	res := InspectHead(head[:n])
	return &res, nil
}
