// Package apitest provides a gin-backed stub API server for tests of API
// clients. Routes return canned JSON or raw bodies and every request is
// recorded for assertions.
//
//	srv := apitest.NewServer(t)
//	srv.JSON(http.MethodGet, "/value", http.StatusOK, map[string]int{"value": 42})
//	client, _ := apiclient.New(apiclient.Config{BaseURL: srv.URL})
package apitest
