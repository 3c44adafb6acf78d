// Package models knows the downloadable whisper model catalog and fetches
// model weights on demand.
package models

import "path/filepath"

// baseURL is a var so tests can point the downloader at a local server.
var baseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// ModelInfo describes one downloadable ggml model.
type ModelInfo struct {
	Name     string
	FileName string
	URL      string
	SizeMB   int
}

var catalog = []ModelInfo{
	{Name: "tiny", FileName: "ggml-tiny.bin", SizeMB: 75},
	{Name: "tiny.en", FileName: "ggml-tiny.en.bin", SizeMB: 75},
	{Name: "base", FileName: "ggml-base.bin", SizeMB: 142},
	{Name: "base.en", FileName: "ggml-base.en.bin", SizeMB: 142},
	{Name: "small", FileName: "ggml-small.bin", SizeMB: 466},
	{Name: "small.en", FileName: "ggml-small.en.bin", SizeMB: 466},
	{Name: "medium", FileName: "ggml-medium.bin", SizeMB: 1500},
	{Name: "medium.en", FileName: "ggml-medium.en.bin", SizeMB: 1500},
	{Name: "large-v3", FileName: "ggml-large-v3.bin", SizeMB: 2900},
	{Name: "large-v3-turbo", FileName: "ggml-large-v3-turbo.bin", SizeMB: 1500},
}

// Catalog lists the known models.
func Catalog() []ModelInfo {
	out := make([]ModelInfo, len(catalog))
	copy(out, catalog)
	for i := range out {
		out[i].URL = baseURL + out[i].FileName
	}
	return out
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (ModelInfo, bool) {
	for _, m := range catalog {
		if m.Name == name {
			m.URL = baseURL + m.FileName
			return m, true
		}
	}
	return ModelInfo{}, false
}

// Path returns where a catalog model lives under modelsDir.
func Path(modelsDir string, m ModelInfo) string {
	return filepath.Join(modelsDir, m.FileName)
}
