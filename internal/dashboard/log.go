package dashboard

import (
	"fmt"
	"math/rand"
	"time"
)

// LogLimit caps how many call records the inspector keeps.
const LogLimit = 50

// APILog is one entry in the call inspector, newest first.
type APILog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Request   any       `json:"request,omitempty"`
	Response  any       `json:"response,omitempty"`
}

func (c *Container) addLog(method, url string, req, resp any) {
	entry := APILog{
		ID:        fmt.Sprintf("log-%d-%04d", c.now().UnixNano(), rand.Intn(10000)),
		Timestamp: c.now(),
		Method:    method,
		URL:       url,
		Request:   req,
		Response:  resp,
	}
	c.mu.Lock()
	c.logs = append([]APILog{entry}, c.logs...)
	if len(c.logs) > LogLimit {
		c.logs = c.logs[:LogLimit]
	}
	c.mu.Unlock()
}
