package cli

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/movielist/internal/config"
	"github.com/user/movielist/internal/repository"
	"github.com/user/movielist/internal/service"
)

// app 命令运行期依赖，按需初始化
type app struct {
	cfg       *config.Config
	repos     *repository.Repositories
	omdb      *service.OMDbClient
	details   *service.DetailService
	watchlist *service.WatchlistService
}

// load 读取 .env 与环境变量，.env 不存在时忽略
func (a *app) load() {
	_ = godotenv.Load()
	a.cfg = config.Load()
}

// needOMDb 搜索、详情类命令需要 API Key
func (a *app) needOMDb() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.omdb == nil {
		a.omdb = service.NewOMDbClient(a.cfg)
		a.details = service.NewDetailService(a.omdb, a.cfg.DetailCacheSize, a.cfg.DetailCacheTTL)
	}
	return nil
}

// needStore 打开片单存储，调用方负责 close
func (a *app) needStore() error {
	if a.watchlist != nil {
		return nil
	}
	db, err := repository.InitDB(a.cfg.DBDriver, a.cfg.DSN())
	if err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}
	a.repos = repository.NewRepositories(db)
	a.watchlist = service.NewWatchlistService(a.repos.Watchlist)
	return nil
}

func (a *app) close() {
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			log.Printf("[CLI] 关闭数据库失败: %v", err)
		}
		a.repos = nil
		a.watchlist = nil
	}
}

// NewRootCmd 构建完整命令树
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "movielist",
		Short:         "search OMDb and keep a watchlist",
		Long:          "movielist - search OMDb titles and track what you plan to watch or have completed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.load()
		},
	}

	root.AddCommand(
		newSearchCmd(a),
		newDetailCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newToggleCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		newTokenCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}
