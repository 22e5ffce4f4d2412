// Package container holds the components built once at startup and shared by the router modules.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/config"
	"github.com/Gitsandu/taskmanagementBackend/internal/application"
	repo "github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
)

// Container is built in main and passed explicitly; there are no package-level singletons.
// Redis and Publisher may be nil when the backing service is disabled or unreachable.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users repo.UserRepository
	Tasks repo.TaskRepository

	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Publisher application.JobPublisher
}

func (c *Container) UserService() *application.UserService {
	return application.NewUserService(c.Users, c.JWT, c.Publisher, c.Config, c.Logger)
}

func (c *Container) TaskService() *application.TaskService {
	return application.NewTaskService(c.Tasks, c.Logger)
}

func (c *Container) AnalyticsService() *application.AnalyticsService {
	return application.NewAnalyticsService(c.Tasks, c.Logger)
}
