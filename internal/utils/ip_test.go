package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedIP(t *testing.T) {
	nets, invalid := ParseCIDRs([]string{"127.0.0.0/8", " 10.1.0.0/16 ", "not-a-cidr", "::1/128"})
	assert.Equal(t, []string{"not-a-cidr"}, invalid)
	assert.Len(t, nets, 3)

	assert.True(t, IsAllowedIP("127.0.0.1", nets))
	assert.True(t, IsAllowedIP("10.1.200.3", nets))
	assert.True(t, IsAllowedIP("::1", nets))
	assert.False(t, IsAllowedIP("10.2.0.1", nets))
	assert.False(t, IsAllowedIP("garbage", nets))
	assert.False(t, IsAllowedIP("127.0.0.1", nil))
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/metrics", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", RemoteIP(r))

	r.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", RemoteIP(r))
}
