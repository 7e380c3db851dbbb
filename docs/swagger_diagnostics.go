package docs

// @title           Fleet Simulation Diagnostics API
// @version         1.0
// @description     Serves Prometheus metrics and per-run textual diagnostics for a completed or in-progress fleet simulation.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /
