package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostsInSubnet(t *testing.T) {
	hosts, err := HostsInSubnet("192.168.1.0/24")
	require.NoError(t, err)

	assert.Len(t, hosts, 254)
	assert.Equal(t, "192.168.1.1", hosts[0])
	assert.Equal(t, "192.168.1.254", hosts[len(hosts)-1])
}

func TestHostsInSubnet_MasksHostBits(t *testing.T) {
	hosts, err := HostsInSubnet("10.0.0.77/30")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.77", "10.0.0.78"}, hosts)
}

func TestHostsInSubnet_SmallPrefixes(t *testing.T) {
	hosts, err := HostsInSubnet("127.0.0.1/32")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1"}, hosts)

	hosts, err = HostsInSubnet("10.0.0.0/31")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0", "10.0.0.1"}, hosts)
}

func TestHostsInSubnet_Largest(t *testing.T) {
	hosts, err := HostsInSubnet("10.1.0.0/22")
	require.NoError(t, err)
	assert.Len(t, hosts, 1022)
}

func TestHostsInSubnet_Errors(t *testing.T) {
	for _, cidr := range []string{"", "192.168.1.0", "10.0.0.0/16", "fd00::/120", "not-a-subnet/24"} {
		_, err := HostsInSubnet(cidr)
		assert.Error(t, err, "HostsInSubnet(%q)", cidr)
	}
}
