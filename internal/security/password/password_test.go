package password

import (
	"strings"
	"testing"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	phc, err := Hash(Default, "correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC prefix: %q", phc)
	}
	if !Verify("correct horse battery staple", phc) {
		t.Fatal("verify must accept the original password")
	}
	if Verify("wrong password", phc) {
		t.Fatal("verify must reject a wrong password")
	}
}

func TestHash_EmptyRejected(t *testing.T) {
	t.Parallel()
	if _, err := Hash(Default, ""); err == nil {
		t.Fatal("empty password must not hash")
	}
}

func TestVerify_GarbageRejected(t *testing.T) {
	t.Parallel()
	for _, phc := range []string{"", "plain", "$argon2id$v=19$m=65536,t=3,p=1$bad", "$md5$x$y$z$w"} {
		if Verify("anything", phc) {
			t.Fatalf("garbage PHC verified: %q", phc)
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()
	p := Policy{MinLength: 10, RequireUpper: true, RequireDigit: true}

	ok, reasons := p.Validate("Abcdefghi1")
	if !ok {
		t.Fatalf("expected ok, reasons=%v", reasons)
	}

	ok, reasons = p.Validate("short")
	if ok {
		t.Fatal("expected rejection")
	}
	joined := strings.Join(reasons, ",")
	for _, want := range []string{"too_short", "missing_upper", "missing_digit"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing reason %q in %v", want, reasons)
		}
	}
}

func TestPolicy_DefaultMinLength(t *testing.T) {
	t.Parallel()
	var p Policy
	if ok, _ := p.Validate("1234567"); ok {
		t.Fatal("7 chars must fail the default minimum")
	}
	if ok, _ := p.Validate("12345678"); !ok {
		t.Fatal("8 chars must pass the default minimum")
	}
}
