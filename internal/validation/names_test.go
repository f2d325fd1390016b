package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateAccountID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "alice"},
		{name: "email like", id: "alice@example.com"},
		{name: "with dash", id: "account-1"},
		{name: "max length", id: strings.Repeat("a", 64)},
		{name: "empty", id: "", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 65), wantErr: true},
		{name: "space", id: "alice smith", wantErr: true},
		{name: "slash", id: "a/b", wantErr: true},
		{name: "cyrillic", id: "алиса", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateZoneName(t *testing.T) {
	tests := []struct {
		name    string
		zone    string
		wantErr bool
	}{
		{name: "default zone", zone: "ScratchpadData"},
		{name: "single char", zone: "z"},
		{name: "dash and underscore", zone: "my_zone-2"},
		{name: "empty", zone: "", wantErr: true},
		{name: "dot", zone: "a.b", wantErr: true},
		{name: "space", zone: "Zone A", wantErr: true},
		{name: "too long", zone: strings.Repeat("z", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateZoneName(tt.zone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRecordID(t *testing.T) {
	assert.NoError(t, ValidateRecordID(uuid.NewString()))
	assert.NoError(t, ValidateRecordID("a"))
	assert.Error(t, ValidateRecordID(""))
	assert.Error(t, ValidateRecordID("a b"))
	assert.Error(t, ValidateRecordID(strings.Repeat("r", 129)))
}
