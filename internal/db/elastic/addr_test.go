package elastic

import "testing"

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantAddr string
		wantUser string
		wantPass string
		wantErr  bool
	}{
		{name: "bare host", raw: "es.local", wantAddr: "https://es.local:9200"},
		{name: "keeps scheme and port", raw: "http://localhost:9201", wantAddr: "http://localhost:9201"},
		{name: "credentials", raw: "elastic:s3cret@es.local", wantAddr: "https://es.local:9200", wantUser: "elastic", wantPass: "s3cret"},
		{name: "user only", raw: "https://reader@es.local:443", wantAddr: "https://es.local:443", wantUser: "reader"},
		{name: "trims space", raw: "  es.local  ", wantAddr: "https://es.local:9200"},
		{name: "empty", raw: "", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, user, pass, err := NormalizeAddr(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got addr %q", addr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", addr, tt.wantAddr)
			}
			if user != tt.wantUser || pass != tt.wantPass {
				t.Errorf("credentials = %q/%q, want %q/%q", user, pass, tt.wantUser, tt.wantPass)
			}
		})
	}
}
