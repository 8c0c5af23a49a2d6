package debugserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-breeze/breeze/pkg/app"
	"github.com/go-breeze/breeze/pkg/controls"
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/platform"
	"github.com/go-breeze/breeze/pkg/render"
)

type fixture struct {
	app  *app.App
	host *controls.Host
	rect *controls.Rectangle
	srv  *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a, err := app.New(app.Options{
		Platform: platform.NewHeadless(500, 500),
		Backend:  &render.Recorder{},
	})
	if err != nil {
		t.Fatal(err)
	}
	host := controls.NewHost(a, "debug", 500, 500)
	host.SetID("host")
	rect := controls.NewRectangle()
	rect.SetID("box")
	rect.SetWidth(50)
	rect.SetHeight(50)
	rect.SetHorizontalAlignment(geometry.AlignHCenter)
	rect.SetVerticalAlignment(geometry.AlignVCenter)
	host.SetContent(rect)
	a.SetRoot(host)
	return &fixture{app: a, host: host, rect: rect, srv: New(a)}
}

// run drives the app loop on the test goroutine while fn issues requests
// from another one.
func (f *fixture) run(t *testing.T, fn func(base string)) {
	t.Helper()
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	go func() {
		defer f.app.Shutdown()
		for !f.app.IsRunning() {
			time.Sleep(time.Millisecond)
		}
		fn(ts.URL)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := f.app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Errorf("GET %s: %v", url, err)
		return 0
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Errorf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.run(t, func(base string) {
		var health map[string]any
		if code := getJSON(t, base+"/health", &health); code != http.StatusOK {
			t.Errorf("status = %d", code)
		}
		if health["status"] != "ok" || health["running"] != true {
			t.Errorf("health = %v", health)
		}
	})
}

func TestTree(t *testing.T) {
	f := newFixture(t)
	f.run(t, func(base string) {
		var tree TreeNode
		if code := getJSON(t, base+"/tree", &tree); code != http.StatusOK {
			t.Errorf("status = %d", code)
			return
		}
		if tree.ID != "host" || tree.Type != "Host" || !tree.Valid {
			t.Errorf("root = %+v", tree)
		}
		if len(tree.Children) != 1 {
			t.Errorf("children = %d, want 1", len(tree.Children))
			return
		}
		box := tree.Children[0]
		if box.ID != "box" || box.Type != "Rectangle" || box.Depth != 1 {
			t.Errorf("child = %+v", box)
		}
		if box.Rect.Left != 225 || box.Rect.Width != 50 {
			t.Errorf("child rect = %+v", box.Rect)
		}
	})
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)
	f.run(t, func(base string) {
		resp, err := http.Post(base+"/invalidate/box", "application/json", nil)
		if err != nil {
			t.Errorf("POST: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}

		resp, err = http.Post(base+"/invalidate/missing", "application/json", nil)
		if err != nil {
			t.Errorf("POST: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("missing element status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestHit(t *testing.T) {
	f := newFixture(t)
	f.run(t, func(base string) {
		var body struct {
			Hits []HitEntry `json:"hits"`
		}
		if code := getJSON(t, base+"/hit?x=250&y=250", &body); code != http.StatusOK {
			t.Errorf("status = %d", code)
			return
		}
		if len(body.Hits) != 2 || body.Hits[0].ID != "box" || body.Hits[1].ID != "host" {
			t.Errorf("hits = %+v, want box then host", body.Hits)
		}
		if code := getJSON(t, base+"/hit?x=a", nil); code != http.StatusBadRequest {
			t.Errorf("bad query status = %d, want 400", code)
		}
	})
}

func TestTicks(t *testing.T) {
	f := newFixture(t)
	f.run(t, func(base string) {
		var timeline app.TickTimeline
		if code := getJSON(t, base+"/ticks?limit=1", &timeline); code != http.StatusOK {
			t.Errorf("status = %d", code)
		}
		if len(timeline.Samples) > 1 {
			t.Errorf("limit ignored: %d samples", len(timeline.Samples))
		}
		if code := getJSON(t, base+"/ticks?limit=-1", nil); code != http.StatusBadRequest {
			t.Errorf("negative limit status = %d, want 400", code)
		}
	})
}

func TestTreeTimesOutWhenLoopIsIdle(t *testing.T) {
	f := newFixture(t)
	f.srv.SetTimeout(20 * time.Millisecond)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/tree")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		body, _ := io.ReadAll(resp.Body)
		t.Errorf("status = %d (%s), want 503", resp.StatusCode, body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := httptest.NewServer(newFixture(t).srv.Handler())
	defer ts.Close()
	resp, err := http.Post(ts.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestStartStop(t *testing.T) {
	srv := newFixture(t).srv
	addr, err := srv.Start("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	again, err := srv.Start("127.0.0.1:0")
	if err != nil || again.String() != addr.String() {
		t.Errorf("second Start = %v, %v; want the running address", again, err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if _, err := http.Get(fmt.Sprintf("http://%s/health", addr)); err == nil {
		t.Error("server still reachable after Stop")
	}
}
