package sr

import (
	"net/http"
	"net/http/httptest"
	"radio/internal/app/radio"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// statusDropConnection 关闭连接以模拟传输层错误
const statusDropConnection = -1

type feedHandler func(path string, query map[string]string) (int, []byte)

func newFeedServer(t *testing.T, handler feedHandler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := make(map[string]string)
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}

		status, body := handler(r.URL.Path, query)
		if status == statusDropConnection {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, serverHost string, chExcludeRule *regexp.Regexp, chGroupRulesList []radio.ChannelGroupRules) *Client {
	t.Helper()
	client, err := NewClient(&Config{}, serverHost, map[string]string{"User-Agent": "radio-test"},
		2*time.Second, 0, chExcludeRule, chGroupRulesList)
	require.NoError(t, err)
	return client.(*Client)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(nil, "http://localhost", nil, time.Second, 0, nil, nil)
	require.Error(t, err)

	_, err = NewClient(&Config{}, "", nil, time.Second, 0, nil, nil)
	require.Error(t, err)

	_, err = NewClient(&Config{Timezone: "Mars/Olympus_Mons"}, "http://localhost", nil, time.Second, 0, nil, nil)
	require.Error(t, err)
}
