package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"TownBuilder/internal/shared/transport"
	"TownBuilder/modules/kit/logx"
)

type placeMsg struct {
	X        int    `json:"x"`
	Z        int    `json:"z"`
	Category string `json:"category"`
}

func TestBind_弱类型坐标(t *testing.T) {
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"x": "3", "z": float64(-2), "category": "residential"}}}
	var m placeMsg
	if err := Bind(req, &m); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if m.X != 3 || m.Z != -2 || m.Category != "residential" {
		t.Fatalf("unexpected %+v", m)
	}
	if err := Bind(&WsMsgReq{Body: &ReqBody{}}, &m); err == nil {
		t.Fatalf("empty msg should fail")
	}
}

func TestRouter_路由分发与错误码(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("town").Handle("echo", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
		resp.Body.Msg = req.Body.Msg
	})

	cases := map[string]int{
		"town.echo": transport.OK,
		"town.nope": transport.NotFound,
		"city.echo": transport.NotFound,
		"townecho":  transport.InvalidParam,
		"town.a.b":  transport.InvalidParam,
	}
	for name, want := range cases {
		resp := &WsMsgResp{Body: &RespBody{Name: name}}
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: name, Msg: "hi"}}, resp)
		if resp.Body.Code != want {
			t.Fatalf("%s: code=%d want %d", name, resp.Body.Code, want)
		}
	}
}

type fakeConn struct {
	id     string
	pushed []string
	full   bool
	done   chan struct{}
}

func (f *fakeConn) ID() string              { return f.id }
func (f *fakeConn) SetProperty(string, any) {}
func (f *fakeConn) GetProperty(string) any  { return nil }
func (f *fakeConn) Addr() string            { return "fake" }
func (f *fakeConn) Close()                  { close(f.done) }
func (f *fakeConn) Done() <-chan struct{}   { return f.done }
func (f *fakeConn) Push(name string, _ any) bool {
	if f.full {
		return false
	}
	f.pushed = append(f.pushed, name)
	return true
}

func TestHub_广播并在关闭后移除(t *testing.T) {
	h := NewHub(logx.Nop())
	a := &fakeConn{id: "a", done: make(chan struct{})}
	b := &fakeConn{id: "b", done: make(chan struct{}), full: true}
	h.Add(a)
	h.Add(b)
	if h.Len() != 2 {
		t.Fatalf("len=%d", h.Len())
	}

	h.Broadcast("building_placed", nil)
	if len(a.pushed) != 1 || a.pushed[0] != "building_placed" {
		t.Fatalf("a pushed %v", a.pushed)
	}

	a.Close()
	deadline := time.Now().Add(time.Second)
	for h.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("closed conn not removed, len=%d", h.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readResp(t *testing.T, c *websocket.Conn) RespBody {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var body RespBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return body
}

func TestServer_欢迎心跳与请求(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("town").Handle("echo", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		var m placeMsg
		if err := Bind(req, &m); err != nil {
			resp.Body.Code = transport.InvalidParam
			return
		}
		resp.Body.Code = transport.OK
		resp.Body.Msg = m
	})
	hub := NewHub(logx.Nop())
	srv := httptest.NewServer(NewServer(r, hub, logx.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if w := readResp(t, c); w.Name != WelcomeMsg {
		t.Fatalf("first frame should be welcome, got %q", w.Name)
	}

	_ = c.WriteJSON(ReqBody{Seq: 1, Name: HeartbeatMsg, Msg: map[string]any{"ctime": 42}})
	hb := readResp(t, c)
	if hb.Seq != 1 || hb.Name != HeartbeatMsg {
		t.Fatalf("heartbeat resp %+v", hb)
	}
	if m, _ := hb.Msg.(map[string]any); m["ctime"] != float64(42) || m["stime"] == float64(0) {
		t.Fatalf("heartbeat payload %+v", hb.Msg)
	}

	_ = c.WriteJSON(ReqBody{Seq: 2, Name: "town.echo", Msg: map[string]any{"x": 1, "z": 2, "category": "road"}})
	resp := readResp(t, c)
	if resp.Seq != 2 || resp.Code != transport.OK {
		t.Fatalf("echo resp %+v", resp)
	}
	if hub.Len() != 1 {
		t.Fatalf("hub len=%d", hub.Len())
	}
}
