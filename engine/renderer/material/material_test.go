package material

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	tex := m.DiffuseTexture()
	if tex == nil || tex.Width != 64 || tex.Height != 64 {
		t.Fatalf("default diffuse = %+v", tex)
	}
	if m.HasNormalMap() {
		t.Error("default material should have no normal map")
	}
	if m.BindGroupProvider() == nil {
		t.Error("expected a default bind group provider")
	}
}

func TestRoles(t *testing.T) {
	normal := common.CheckerTexture(2, 1, color.RGBA{R: 128, G: 128, B: 255, A: 255}, color.RGBA{R: 128, G: 128, B: 255, A: 255})
	withNormal := NewMaterial(WithName("bricks"), WithNormalTexture(normal))
	plain := NewMaterial(WithName("plain"))

	tests := []struct {
		name    string
		m       Material
		role    string
		wantErr bool
	}{
		{"diffuse", plain, RoleDiffuseTexture, false},
		{"normal present", withNormal, RoleNormalTexture, false},
		{"normal missing", plain, RoleNormalTexture, true},
		{"sampler is not a texture", plain, RoleDiffuseSampler, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := tt.m.Texture(tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Texture(%q) err = %v, wantErr %v", tt.role, err, tt.wantErr)
			}
			if !tt.wantErr && tex == nil {
				t.Error("expected a texture")
			}
		})
	}

	s, err := plain.Sampler(RoleDiffuseSampler)
	if err != nil {
		t.Fatalf("Sampler: %v", err)
	}
	if s != DefaultSampler {
		t.Errorf("sampler = %+v, want default", s)
	}
	if _, err := plain.Sampler(RoleDiffuseTexture); err == nil {
		t.Error("expected an error for a texture role")
	}
}

func TestNewMaterialFromFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "diffuse.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewMaterialFromFile(path, WithName("file"))
	if err != nil {
		t.Fatalf("NewMaterialFromFile: %v", err)
	}
	if m.Name() != "file" {
		t.Errorf("name = %q", m.Name())
	}
	if tex := m.DiffuseTexture(); tex.Width != 3 || tex.Height != 2 {
		t.Errorf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}

	if _, err := NewMaterialFromFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
