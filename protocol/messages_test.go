package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestStartPayload(t *testing.T) {
	tests := []struct {
		name         string
		major, minor byte
		want         []byte
	}{
		{"zero version", 0, 0, []byte{0x00, 0x00}},
		{"major only", 2, 0, []byte{0x02, 0x00}},
		{"minor only", 0, 7, []byte{0x00, 0x07}},
		{"both", 1, 4, []byte{0x01, 0x04}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartPayload(tt.major, tt.minor)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("StartPayload(%d, %d) = %v, want %v", tt.major, tt.minor, got, tt.want)
			}
			if len(got) != StartPayloadSize {
				t.Errorf("payload size = %d, want %d", len(got), StartPayloadSize)
			}
		})
	}
}

func TestPageNumberPayload(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		want    []byte
		wantErr bool
	}{
		{"first page", 1, []byte{0x01}, false},
		{"max page", 255, []byte{0xFF}, false},
		{"zero is not a wire page", 0, nil, true},
		{"negative", -3, nil, true},
		{"too large", 256, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageNumberPayload(tt.page)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("PageNumberPayload(%d) expected error, got nil", tt.page)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PageNumberPayload(%d) = %v, want %v", tt.page, got, tt.want)
			}
		})
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{CmdStart, "START"},
		{CmdPageNumber, "PAGE_NUMBER"},
		{CmdPageData, "PAGE_DATA"},
		{CmdEnd, "END"},
	}

	for _, tt := range tests {
		if got := CommandName(tt.code); got != tt.want {
			t.Errorf("CommandName(0x%02X) = %q, want %q", tt.code, got, tt.want)
		}
	}

	if got := CommandName(0x42); !strings.Contains(got, "0x42") {
		t.Errorf("unknown code name = %q, want the code spelled out", got)
	}
}
