package redisx

import "testing"

func TestOptionsParsesURL(t *testing.T) {
	opt, err := Options("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig != nil {
		t.Fatalf("expected plain connection")
	}
}

func TestOptionsInsecureTLS(t *testing.T) {
	opt, err := Options("rediss://localhost:6380", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected insecure TLS config")
	}

	opt, err = Options("redis://localhost:6379", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected TLS forced on by insecure flag")
	}
}

func TestOptionsRequiresURL(t *testing.T) {
	if _, err := Options("", false); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
