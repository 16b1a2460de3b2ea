package webserver

import (
	"net/http"

	"github.com/gradekit/gradekit/internal/webapi"
)

// buildHandler assembles the route table and middleware chain.
func buildHandler(cfg Config, grader webapi.Grader, catalog webapi.Catalog, tags webapi.TagLister) http.Handler {
	mux := http.NewServeMux()
	webapi.RegisterRoutes(mux, grader, catalog, tags)
	return webapi.CORSMiddleware(mux, cfg.Origins...)
}
