// FILE: svckit/src/internal/core/source.go
package core

import (
	"path/filepath"
	"runtime"
	"strings"

	"svckit/src/internal/values"
)

// Source block keys.
const (
	SourceFileName = "file_name"
	SourceFuncName = "func_name"
	SourceLineNo   = "line_no"
	SourceModule   = "module"
	SourceLevelNo  = "level_no"
)

// Framework attribute names that snake_case conversion alone would not map onto source keys.
var sourceRenames = map[string]string{
	"filename":  SourceFileName,
	"funcName":  SourceFuncName,
	"lineno":    SourceLineNo,
	"levelno":   SourceLevelNo,
	"levelname": "level_name",
}

// SourceBlock is the allow-listed call-site projection attached to every record.
type SourceBlock struct {
	FileName string `json:"file_name"`
	FuncName string `json:"func_name"`
	LineNo   int    `json:"line_no"`
	Module   string `json:"module"`
	LevelNo  int    `json:"level_no"`
}

// NewSourceBlock projects raw record attributes onto the source block.
// Names are renamed, then snake_cased, then matched against the allow-list; everything else is dropped.
func NewSourceBlock(attrs map[string]any) SourceBlock {
	var sb SourceBlock
	for raw, v := range attrs {
		key, ok := sourceRenames[raw]
		if !ok {
			key = values.SnakeCase(raw)
		}

		switch key {
		case SourceFileName:
			sb.FileName = asString(v)
		case SourceFuncName:
			sb.FuncName = asString(v)
		case SourceLineNo:
			if n, ok := asInt(v); ok {
				sb.LineNo = int(n)
			}
		case SourceModule:
			sb.Module = asString(v)
		case SourceLevelNo:
			if n, ok := asInt(v); ok {
				sb.LevelNo = int(n)
			}
		}
	}
	return sb
}

// AsMap returns the block keyed by its snake_case names.
func (s SourceBlock) AsMap() map[string]any {
	return map[string]any{
		SourceFileName: s.FileName,
		SourceFuncName: s.FuncName,
		SourceLineNo:   s.LineNo,
		SourceModule:   s.Module,
		SourceLevelNo:  s.LevelNo,
	}
}

// CaptureCaller resolves the call site skip frames above its caller.
func CaptureCaller(skip int) Caller {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Caller{}
	}
	return CallerFromPC(pc, file, line)
}

// CallerFromPC builds a Caller from a program counter and its file position.
func CallerFromPC(pc uintptr, file string, line int) Caller {
	c := Caller{
		Path: file,
		File: filepath.Base(file),
		Line: line,
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		c.Module, c.Function = splitFuncName(fn.Name())
	}
	return c
}

// splitFuncName splits "a/b/pkg.(*T).Method" into "a/b/pkg" and "(*T).Method".
func splitFuncName(full string) (module, function string) {
	slash := strings.LastIndexByte(full, '/')
	dot := strings.IndexByte(full[slash+1:], '.')
	if dot < 0 {
		return "", full
	}
	dot += slash + 1
	return full[:dot], full[dot+1:]
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case interface{ String() string }:
		return s.String()
	}
	return ""
}
