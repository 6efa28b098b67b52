package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/config"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"host": "127.0.0.1:5084",
		"log_level": "info",
		"log_response_ack": true,
		"response_timeout": 2000,
		"reader_config": {
			"hop_table_id": 1,
			"channel_index": 1,
			"tx_power_table_index": 1,
			"rx_power_table_index": 1
		},
		"rospec": {
			"rospec_id": 1,
			"priority": 0,
			"antenna_count": 1,
			"antennas": [0],
			"ROSpecStartTriggerType": 1,
			"ROSpecStopTriggerType": 0,
			"AISpecStopTriggerType": 0,
			"InventoryParamSpecID": 1,
			"AIProtocol": 1,
			"ROReportTriggerType": 0,
			"ROReportTrigger_N": 0,
			"ReportContentSelector": 0
		}
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:5084", cfg.Host)
	require.Equal(t, uint32(1), cfg.ROSpec.ROSpecID)
	require.Equal(t, []uint16{0}, cfg.ROSpec.Antennas)
	require.EqualValues(t, 2000, cfg.ResponseTimeoutMS)
}

func TestLoadMissingHostIsBadConfig(t *testing.T) {
	path := writeTempConfig(t, `{"response_timeout": 1000}`)
	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrBadConfig)
}

func TestLoadMissingFileIsBadConfig(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.json")
	require.ErrorIs(t, err, config.ErrBadConfig)
}

func TestLoadMalformedJSONIsBadConfig(t *testing.T) {
	path := writeTempConfig(t, `{not valid json`)
	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrBadConfig)
}
