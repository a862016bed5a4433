package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// remoteConfig - формат config.json, который публикуется рядом со статическим экспортом.
type remoteConfig struct {
	LiveAPIURL string `json:"liveApiUrl"`
}

// DiscoverLiveURL читает адрес live API из удалённого config.json.
// Пустая строка без ошибки означает, что live-режим в документе не задан.
func DiscoverLiveURL(ctx context.Context, client *http.Client, configURL string, timeout time.Duration) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build config request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", configURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("config %s returned status %d", configURL, resp.StatusCode)
	}

	var rc remoteConfig
	if err := json.NewDecoder(resp.Body).Decode(&rc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", configURL, err)
	}
	if rc.LiveAPIURL == "" {
		return "", nil
	}
	if err := validateBaseURL("liveApiUrl", rc.LiveAPIURL); err != nil {
		return "", err
	}
	return rc.LiveAPIURL, nil
}
