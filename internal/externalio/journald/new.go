package journald

import (
	"bytes"
	"context"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/syslog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const bootIDPath string = "/proc/sys/kernel/random/boot_id"

// Creates new journald output module. Tests connection. Returns nil nil if no url.
func NewOutput(endpoint string, identifier string, facility string) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}
	if identifier == "" {
		identifier = global.ProgBaseName
	}

	facilityCode, err := syslog.FacilityToCode(facility)
	if err != nil {
		err = fmt.Errorf("invalid journald facility: %w", err)
		return
	}

	new := &OutModule{
		identifier: identifier,
		facility:   facilityCode,
		bootID:     readBootID(),
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		DisableKeepAlives:     false,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: -1, // Not supported by journal remote server
	}

	var baseURL *url.URL
	baseURL, err = url.Parse(endpoint)
	if err != nil {
		err = fmt.Errorf("invalid journald URL: %w", err)
		return
	}
	messagePublishPath := &url.URL{Path: "upload"} // Only path accepted by the remote server
	new.url = baseURL.ResolveReference(messagePublishPath).String()

	new.sink = &http.Client{
		Transport: transport,
		Timeout:   0, // per request deadline comes from the delivery context
	}

	testCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var req *http.Request
	req, err = http.NewRequestWithContext(testCtx, http.MethodPost, endpoint, bytes.NewReader(nil))
	if err != nil {
		err = fmt.Errorf("failed to create test HTTP connection to journald: %w", err)
		return
	}
	req.Header.Set("Content-Type", "application/vnd.fdo.journal")

	var resp *http.Response
	resp, err = new.sink.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to test HTTP connection to journald: %w", err)
		return
	}
	resp.Body.Close()

	module = new
	return
}

// Kernel boot id without dashes, or a random one when unavailable
func readBootID() (id string) {
	raw, err := os.ReadFile(bootIDPath)
	if err == nil {
		id = strings.ReplaceAll(strings.TrimSpace(string(raw)), "-", "")
	}
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return
}
