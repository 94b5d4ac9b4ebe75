package buffer

import (
	"path/filepath"
	"strings"
)

// extFileTypes maps extensions to the file type names editors use, which
// are also the language names the renderer accepts.
var extFileTypes = map[string]string{
	".go":       "go",
	".rs":       "rust",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".js":       "javascript",
	".mjs":      "javascript",
	".jsx":      "javascriptreact",
	".py":       "python",
	".rb":       "ruby",
	".java":     "java",
	".c":        "c",
	".h":        "c",
	".cpp":      "cpp",
	".cc":       "cpp",
	".cxx":      "cpp",
	".hpp":      "cpp",
	".cs":       "cs",
	".swift":    "swift",
	".kt":       "kotlin",
	".kts":      "kotlin",
	".scala":    "scala",
	".php":      "php",
	".lua":      "lua",
	".sh":       "sh",
	".bash":     "bash",
	".zsh":      "zsh",
	".fish":     "fish",
	".vim":      "vim",
	".json":     "json",
	".yaml":     "yaml",
	".yml":      "yaml",
	".toml":     "toml",
	".xml":      "xml",
	".html":     "html",
	".htm":      "html",
	".css":      "css",
	".scss":     "scss",
	".less":     "less",
	".md":       "markdown",
	".markdown": "markdown",
	".sql":      "sql",
	".proto":    "proto",
	".zig":      "zig",
	".nix":      "nix",
	".ex":       "elixir",
	".exs":      "elixir",
	".hs":       "haskell",
	".ml":       "ocaml",
	".tf":       "terraform",
}

// nameFileTypes maps whole file names that carry no useful extension.
var nameFileTypes = map[string]string{
	"Makefile":       "make",
	"makefile":       "make",
	"GNUmakefile":    "make",
	"Dockerfile":     "dockerfile",
	"Containerfile":  "dockerfile",
	"CMakeLists.txt": "cmake",
	"go.mod":         "gomod",
	"go.sum":         "gosum",
	".bashrc":        "bash",
	".zshrc":         "zsh",
}

// DetectFileType returns the file type for a path, or "" when unknown.
func DetectFileType(path string) string {
	base := filepath.Base(path)
	if ft, ok := nameFileTypes[base]; ok {
		return ft
	}
	return extFileTypes[strings.ToLower(filepath.Ext(base))]
}
