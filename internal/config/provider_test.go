package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAccountEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ACCOUNT_ADDRESS", "PRIVATE_KEY", "KATANA_ACCOUNT_ADDRESS", "KATANA_PRIVATE_KEY", "STARKNET_NETWORK", "STARKSWAP_NETWORK"} {
		t.Setenv(k, "")
	}
}

func TestProvider(t *testing.T) {
	t.Run("defaults to katana", func(t *testing.T) {
		clearAccountEnv(t)
		root := t.TempDir()

		v := viper.New()
		v.Set("project_root", root)
		v.Set("timeout", "10m")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "katana", cfg.Network.Name)
		assert.Equal(t, "http://127.0.0.1:5050", cfg.Network.RPCURL)
		assert.Nil(t, cfg.Account)
		assert.Equal(t, "starkli", cfg.StarkliPath)
		assert.Equal(t, 10*time.Minute, cfg.Timeout)
		assert.Equal(t, filepath.Join(root, "deployments"), cfg.Paths.DeploymentsDir)
		assert.Equal(t, filepath.Join(root, "deployments", "katana"), cfg.Paths.NetworkDir("katana"))

		_, err = cfg.RequireAccount()
		assert.ErrorContains(t, err, "KATANA_ACCOUNT_ADDRESS")
	})

	t.Run("project file and dotenv", func(t *testing.T) {
		clearAccountEnv(t)
		root := t.TempDir()
		t.Cleanup(func() { _ = os.Unsetenv("STARKSWAP_TEST_STAGING_URL") })

		require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(`
[paths]
build = "target/dev"

[networks.staging]
rpc_url = "${STARKSWAP_TEST_STAGING_URL}"

[starkli]
path = "/opt/bin/starkli"
`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("STARKSWAP_TEST_STAGING_URL=http://10.1.2.3:9545\n"), 0644))
		t.Setenv("STAGING_ACCOUNT_ADDRESS", "0x42")
		t.Setenv("STAGING_PRIVATE_KEY", "0x99")

		v := viper.New()
		v.Set("project_root", root)
		v.Set("network", "staging")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "http://10.1.2.3:9545", cfg.Network.RPCURL)
		assert.Equal(t, filepath.Join(root, "target", "dev"), cfg.Paths.BuildDir)
		assert.Equal(t, "/opt/bin/starkli", cfg.StarkliPath)
		require.NotNil(t, cfg.Account)
		assert.Equal(t, "0x42", cfg.Account.Address.Hex())
	})

	t.Run("unresolvable network fails unless lenient", func(t *testing.T) {
		clearAccountEnv(t)
		t.Setenv("SHARINGAN_RPC_URL", "")
		root := t.TempDir()

		v := viper.New()
		v.Set("project_root", root)
		v.Set("network", "sharingan")

		_, err := Provider(v)
		assert.ErrorContains(t, err, "SHARINGAN_RPC_URL")

		v.Set(LenientNetworkKey, true)
		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "sharingan", cfg.Network.Name)
		assert.Empty(t, cfg.Network.RPCURL)
	})

	t.Run("malformed project file", func(t *testing.T) {
		clearAccountEnv(t)
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte("[networks\n"), 0644))

		v := viper.New()
		v.Set("project_root", root)

		_, err := Provider(v)
		assert.ErrorContains(t, err, ProjectFileName)
	})
}

func TestLoadProjectFile_Missing(t *testing.T) {
	project, err := LoadProjectFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, project.Networks)
}
