package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"RepairDesk/pkg/back"
	"RepairDesk/pkg/util/myjwt"
	"RepairDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type adminSet map[string]bool

func (a adminSet) IsAdmin(ctx context.Context, uuid string) (bool, error) {
	if uuid == "broken" {
		return false, errors.New("db down")
	}
	return a[uuid], nil
}

func newRouter(t *testing.T) (*gin.Engine, *myjwt.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := myjwt.New("test-key", "RepairDesk", 1)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	r := gin.New()
	authed := r.Group("/", Auth(signer))
	authed.GET("/me", func(c *gin.Context) { back.Success(c, c.GetString(CtxUUID)) })
	authed.GET("/admin", RequireAdmin(adminSet{"boss": true}), func(c *gin.Context) { back.Success(c, "ok") })
	return r, signer
}

func call(r *gin.Engine, path, header string) back.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp back.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestAuth(t *testing.T) {
	r, signer := newRouter(t)
	tok, _ := signer.GenerateToken("tech-1", "abebe")

	if resp := call(r, "/me", ""); resp.Code != xerr.Unauthorized {
		t.Fatalf("no token code = %d", resp.Code)
	}
	if resp := call(r, "/me", "Bearer garbage"); resp.Code != xerr.Unauthorized {
		t.Fatalf("bad token code = %d", resp.Code)
	}
	if resp := call(r, "/me", "Bearer "+tok); resp.Code != xerr.OK || resp.Data != "tech-1" {
		t.Fatalf("header token resp = %+v", resp)
	}
	if resp := call(r, "/me?token="+tok, ""); resp.Code != xerr.OK {
		t.Fatalf("query token resp = %+v", resp)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, signer := newRouter(t)
	tech, _ := signer.GenerateToken("tech-1", "abebe")
	boss, _ := signer.GenerateToken("boss", "owner")
	broken, _ := signer.GenerateToken("broken", "x")

	if resp := call(r, "/admin", "Bearer "+tech); resp.Code != xerr.Forbidden {
		t.Fatalf("non-admin code = %d", resp.Code)
	}
	if resp := call(r, "/admin", "Bearer "+boss); resp.Code != xerr.OK {
		t.Fatalf("admin code = %d", resp.Code)
	}
	if resp := call(r, "/admin", "Bearer "+broken); resp.Code != xerr.InternalServerError {
		t.Fatalf("checker error code = %d", resp.Code)
	}
}
