// Package server exposes a Browser as a JSON HTTP API built on gin.
//
//	r := server.NewRouter(b, server.WithLogger(logger))
//	srv := server.New(":8080", r)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
