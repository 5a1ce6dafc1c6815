// Package api provides REST API handlers for the ComputeChain explorer
// @title ComputeChain Explorer API
// @version 1.0
// @description REST API for querying blocks, transactions and accounts indexed from a ComputeChain node
// @contact.name API Support
// @contact.url https://github.com/computechain/explorer
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:3001
// @basePath /api/v1
// @schemes http https
package api
