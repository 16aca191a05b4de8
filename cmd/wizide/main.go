// Package main is the entry point for wizide.
//
//	@title						wizide API
//	@version					1.0
//	@description				Editor session API: open editors, tab data and the app, route and source catalogs.
//
//	@license.name				MIT
//
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token printed by wizide init
package main

func main() {
	Execute()
}
