package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/modnorris/pkg/models"
)

func TestInferSourceType(t *testing.T) {
	localFile := filepath.Join(t.TempDir(), "local.jar")
	if err := os.WriteFile(localFile, []byte("jar"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		source string
		want   models.SourceType
	}{
		{"modrinth:lithium", models.SourceModrinth},
		{"mr:lithium", models.SourceModrinth},
		{"MR:Lithium", models.SourceModrinth},
		{"curseforge:jei", models.SourceCurseForge},
		{"cf:jei", models.SourceCurseForge},
		{"https://example.com/mod.jar", models.SourceURL},
		{"http://example.com/mod.jar", models.SourceURL},
		{localFile, models.SourceLocal},
		{"definitely/not/a/path.jar", models.SourceCustom},
		{"some-slug", models.SourceCustom},
	}

	for _, tt := range tests {
		if got := InferSourceType(tt.source); got != tt.want {
			t.Errorf("InferSourceType(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		sourceType  models.SourceType
		want        string
		wantVersion string
	}{
		{"ModrinthPrefix", "modrinth:lithium", models.SourceModrinth, "lithium", ""},
		{"ShortPrefix", "mr:lithium", models.SourceModrinth, "lithium", ""},
		{"InlineVersion", "modrinth:lithium@mc1.21.1-0.14.3", models.SourceModrinth, "lithium", "mc1.21.1-0.14.3"},
		{"CurseForgeInline", "cf:jei@12345", models.SourceCurseForge, "jei", "12345"},
		{"NoPrefix", "lithium", models.SourceModrinth, "lithium", ""},
		{"URLUntouched", "https://example.com/m@2.jar", models.SourceURL, "https://example.com/m@2.jar", ""},
		{"LocalUntouched", "/tmp/m@2.jar", models.SourceLocal, "/tmp/m@2.jar", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotVersion := NormalizeSource(tt.source, tt.sourceType)
			if got != tt.want {
				t.Errorf("normalized = %q, want %q", got, tt.want)
			}
			if gotVersion != tt.wantVersion {
				t.Errorf("inline version = %q, want %q", gotVersion, tt.wantVersion)
			}
		})
	}
}

func TestDeriveModID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sodium-fabric-0.6.0.jar", "sodium-fabric-0-6-0"},
		{"Lithium.jar", "lithium"},
		{"My Mod (v2).zip", "my-mod-v2"},
		{"___.jar", "mod"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := DeriveModID(tt.filename); got != tt.want {
			t.Errorf("DeriveModID(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestHumanizeName(t *testing.T) {
	tests := []struct {
		modID string
		want  string
	}{
		{"fabric-api", "Fabric Api"},
		{"sodium", "Sodium"},
		{"my_great_mod", "My Great Mod"},
	}

	for _, tt := range tests {
		if got := HumanizeName(tt.modID); got != tt.want {
			t.Errorf("HumanizeName(%q) = %q, want %q", tt.modID, got, tt.want)
		}
	}
}

func TestCheckCompatibility(t *testing.T) {
	t.Run("LoaderMatchCaseInsensitive", func(t *testing.T) {
		if err := CheckCompatibility("lithium", "Fabric", nil, "fabric", "1.21.1"); err != nil {
			t.Errorf("CheckCompatibility() error = %v, want nil", err)
		}
	})

	t.Run("LoaderMismatch", func(t *testing.T) {
		err := CheckCompatibility("lithium", "forge", nil, "fabric", "")
		if !models.IsKind(err, models.KindIncompatible) {
			t.Fatalf("CheckCompatibility() error = %v, want kind %s", err, models.KindIncompatible)
		}
		if !strings.Contains(err.Error(), "forge") || !strings.Contains(err.Error(), "fabric") {
			t.Errorf("error should name both loaders, got %q", err.Error())
		}
	})

	t.Run("MCVersionListed", func(t *testing.T) {
		if err := CheckCompatibility("lithium", "", []string{"1.21", "1.21.1"}, "", "1.21.1"); err != nil {
			t.Errorf("CheckCompatibility() error = %v, want nil", err)
		}
	})

	t.Run("MCVersionNotListed", func(t *testing.T) {
		err := CheckCompatibility("lithium", "", []string{"1.21", "1.21.1"}, "", "1.20.4")
		if !models.IsKind(err, models.KindIncompatible) {
			t.Fatalf("CheckCompatibility() error = %v, want kind %s", err, models.KindIncompatible)
		}
		if !strings.Contains(err.Error(), "1.21, 1.21.1") {
			t.Errorf("error should list supported versions, got %q", err.Error())
		}
	})

	t.Run("AbsentMetadataIsNotAnError", func(t *testing.T) {
		if err := CheckCompatibility("lithium", "", nil, "fabric", "1.21.1"); err != nil {
			t.Errorf("CheckCompatibility() with no metadata error = %v, want nil", err)
		}
	})

	t.Run("NoPreferenceAcceptsAnything", func(t *testing.T) {
		if err := CheckCompatibility("lithium", "forge", []string{"1.12.2"}, "", ""); err != nil {
			t.Errorf("CheckCompatibility() without preference error = %v, want nil", err)
		}
	})
}

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()

	for _, st := range []models.SourceType{models.SourceLocal, models.SourceURL, models.SourceModrinth, models.SourceCurseForge} {
		if _, err := registry.Get(st); err != nil {
			t.Errorf("Get(%s) error = %v", st, err)
		}
	}

	_, err := registry.Get(models.SourceCustom)
	if !models.IsKind(err, models.KindUnsupported) {
		t.Errorf("Get(custom) error = %v, want kind %s", err, models.KindUnsupported)
	}
}
