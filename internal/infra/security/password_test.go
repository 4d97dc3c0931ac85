package security

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple 1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple 1" {
		t.Fatalf("hash must not equal the cleartext password")
	}

	ok, err := VerifyPassword("correct horse battery staple 1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPassword_SaltsEachCall(t *testing.T) {
	first, err := HashPassword("repeatable input 9")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("repeatable input 9")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password should differ via salt")
	}
}

func TestVerifyPassword_EmptyInputs(t *testing.T) {
	if ok, err := VerifyPassword("", "$2a$10$abcdefghijklmnopqrstuv"); err != nil || ok {
		t.Fatalf("empty password should fail verification cleanly, got ok=%v err=%v", ok, err)
	}
	if ok, err := VerifyPassword("secret123", ""); err != nil || ok {
		t.Fatalf("empty hash should fail verification cleanly, got ok=%v err=%v", ok, err)
	}
}

func TestDefaultPasswordValidator(t *testing.T) {
	validator := DefaultPasswordValidator()

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "too short", password: "ab1", wantErr: true},
		{name: "no digit", password: "onlyletters", wantErr: true},
		{name: "no letter", password: "123456789", wantErr: true},
		{name: "weak common", password: "password1", wantErr: true},
		{name: "acceptable", password: "g4lactic-archive", wantErr: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.password)
			if tc.wantErr && err == nil {
				t.Fatalf("expected %q to be rejected", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.password, err)
			}
		})
	}
}
