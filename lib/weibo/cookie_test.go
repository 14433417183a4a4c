package weibo

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCookies(t *testing.T) {
	cookies := ParseCookies("SUB=_2A25abc; SUBP=0033WrSX; XSRF-TOKEN=tok==")
	require.Equal(t, []*http.Cookie{
		{Name: "SUB", Value: "_2A25abc"},
		{Name: "SUBP", Value: "0033WrSX"},
		{Name: "XSRF-TOKEN", Value: "tok=="},
	}, cookies)
}

func TestParseCookiesMalformed(t *testing.T) {
	cookies := ParseCookies("  ; novalue; =orphan; ok=1;")
	require.Equal(t, []*http.Cookie{
		{Name: "ok", Value: "1"},
	}, cookies)
}

func TestParseCookiesEmpty(t *testing.T) {
	require.Empty(t, ParseCookies(""))
}
