package errors

import "testing"

func TestValidateGraphID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2504e0-4f89-41d3-9a0c-0305e82c3301", false},
		{"slug", "lewin_gmit.fig3", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"traversal", "a..b", true},
		{"leading dot", ".hidden", true},
		{"space", "a b", true},
		{"too long", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidLayout,
		ErrCodeInvalidTransform,
		ErrCodeInvalidStrategy,
		ErrCodeInvalidParser,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
