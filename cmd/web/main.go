// @title           Pink Collar API
// @version         1.0
// @description     Админ-панель подбора кандидатов: анкеты, дашборд, админы и приглашения.
// @contact.name    Pink Collar Team
// @contact.email   info@pinkcollar.live
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:3000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "pinkcollar_backend/internal/app"

func main() {
	app.Run()
}
