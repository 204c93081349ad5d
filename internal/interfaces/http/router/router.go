package router

import (
	"net/http"
	"path"

	"github.com/furnitureops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where every domain group is mounted.
const APIPrefix = "/api/v1"

// Public marks a route that only needs a valid token, or nothing at all when
// the JWT middleware skips its path.
const Public = ""

// RouteInfo describes one route of the table
type RouteInfo struct {
	Method     string
	Path       string
	Permission string
}

type route struct {
	RouteInfo
	chain []gin.HandlerFunc
}

// DomainGroup is the route table of one bounded context. Each route carries
// the permission code it requires and the group wraps the handler chain with
// middleware.RequirePermission when mounted.
type DomainGroup struct {
	name     string
	prefix   string
	use      []gin.HandlerFunc
	routes   []route
	children []*DomainGroup
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (dg *DomainGroup) Name() string   { return dg.name }
func (dg *DomainGroup) Prefix() string { return dg.prefix }

// Use appends middleware that runs for every route of the group and its
// subgroups.
func (dg *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	dg.use = append(dg.use, mw...)
	return dg
}

// Handle adds a route. permission may be Public.
func (dg *DomainGroup) Handle(method, p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{
		RouteInfo: RouteInfo{Method: method, Path: p, Permission: permission},
		chain:     chain,
	})
	return dg
}

func (dg *DomainGroup) GET(p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, p, permission, chain...)
}

func (dg *DomainGroup) POST(p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, p, permission, chain...)
}

func (dg *DomainGroup) PUT(p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, p, permission, chain...)
}

func (dg *DomainGroup) PATCH(p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, p, permission, chain...)
}

func (dg *DomainGroup) DELETE(p, permission string, chain ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, p, permission, chain...)
}

// Group nests a child group under dg's prefix and middleware.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	dg.children = append(dg.children, child)
	return child
}

// RegisterRoutes mounts the group on rg.
func (dg *DomainGroup) RegisterRoutes(rg gin.IRouter) {
	group := rg.Group(dg.prefix, dg.use...)
	for _, r := range dg.routes {
		chain := r.chain
		if r.Permission != Public {
			chain = append([]gin.HandlerFunc{middleware.RequirePermission(r.Permission)}, chain...)
		}
		group.Handle(r.Method, r.Path, chain...)
	}
	for _, child := range dg.children {
		child.RegisterRoutes(group)
	}
}

// Routes flattens the group into paths relative to APIPrefix.
func (dg *DomainGroup) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(dg.routes))
	for _, r := range dg.routes {
		info := r.RouteInfo
		info.Path = joinPath(dg.prefix, r.Path)
		out = append(out, info)
	}
	for _, child := range dg.children {
		for _, info := range child.Routes() {
			info.Path = joinPath(dg.prefix, info.Path)
			out = append(out, info)
		}
	}
	return out
}

func joinPath(prefix, p string) string {
	if p == "" {
		return prefix
	}
	return path.Join(prefix, p)
}

// Mount registers groups under APIPrefix.
func Mount(engine gin.IRouter, groups ...*DomainGroup) {
	api := engine.Group(APIPrefix)
	for _, g := range groups {
		g.RegisterRoutes(api)
	}
}
