package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root is the directory holding shaders/ and textures/.
var Root = "assets"

// LoadShader reads a GLSL file from <Root>/shaders.
func LoadShader(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(Root, "shaders", name)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}
