package security

import "testing"

func TestHostAllowed(t *testing.T) {
	allowed := []string{"localhost", "127.0.0.1", "10.0.0.0/8", "192.168.0.0/16"}

	tests := []struct {
		name string
		host string
		want bool
	}{
		{"literal match", "localhost", true},
		{"literal ip match", "127.0.0.1", true},
		{"cidr match", "10.1.2.3", true},
		{"second cidr match", "192.168.1.1", true},
		{"not in list", "1.2.3.4", false},
		{"arbitrary hostname", "evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostAllowed(allowed, tt.host); got != tt.want {
				t.Errorf("HostAllowed(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestSafeFSResolve(t *testing.T) {
	dir := t.TempDir()
	sfs, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS() error = %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "report.txt", "report.txt"},
		{"absolute path escapes to basename", "/etc/passwd", "passwd"},
		{"traversal collapses to basename", "../../etc/passwd", "passwd"},
		{"nested traversal collapses to basename", "a/b/../../../secret.db", "secret.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sfs.Resolve(tt.input); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
