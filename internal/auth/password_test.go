package auth

import (
	"strings"
	"testing"

	"github.com/hitoshi/taskboard/internal/dto"
)

func TestBcryptHasher_HashAndMatches(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("Passw0rdX")
	if err != nil {
		t.Fatalf("Hash がエラーを返した: %v", err)
	}
	if !h.Matches("Passw0rdX", hash) {
		t.Error("同じパスワードが一致しない")
	}
	if h.Matches("Passw0rdY", hash) {
		t.Error("異なるパスワードが一致した")
	}
	if h.Matches("Passw0rdX", "not-a-hash") {
		t.Error("不正な形式のハッシュが一致した")
	}
}

// 72バイトを超えるパスワードもハッシュ化でき、末尾の違いを区別する
func TestBcryptHasher_LongPassword(t *testing.T) {
	h := NewBcryptHasher(4)
	pw := "Aa1" + strings.Repeat("x", 97)
	if !dto.ValidPassword(pw) {
		t.Fatalf("前提: %d文字のパスワードが検証を通らない", len(pw))
	}

	hash, err := h.Hash(pw)
	if err != nil {
		t.Fatalf("Hash がエラーを返した: %v", err)
	}
	if !h.Matches(pw, hash) {
		t.Error("長いパスワードが一致しない")
	}
	if h.Matches(pw[:99]+"y", hash) {
		t.Error("73バイト目以降だけが異なるパスワードが一致した")
	}
}
