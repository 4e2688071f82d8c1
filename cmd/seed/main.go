package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var date string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 导入初始数据, 3: 插入随机内部预约)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&date, "date", "", "随机内部预约所在的日期 (yyyy-mm-dd)，默认为今天")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Schedule.Timezone, "error", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(context.Background(), user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		f, err := seed.LoadFixture(cfg.Seed.FixturePath)
		if err != nil {
			slog.Error("无法读取初始数据文件", "path", cfg.Seed.FixturePath, "error", err)
			return
		}

		if err := seed.NewSeeder(repo, loc).Run(context.Background(), f, time.Now()); err != nil {
			slog.Error("导入初始数据失败", "error", err)
			return
		}

		slog.Info("导入初始数据完成")
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的预约数量")
			return
		}

		day := time.Now().In(loc)
		if date != "" {
			day, err = time.ParseInLocation(domain.DateLayout, date, loc)
			if err != nil {
				slog.Error("日期格式错误", "date", date)
				return
			}
		}

		stations, err := repo.GetAllStations(context.Background())
		if err != nil {
			slog.Error("无法获取工位", slog.String("error", err.Error()))
			return
		}
		if len(stations) == 0 {
			slog.Error("数据库中没有工位，请先导入初始数据")
			return
		}
		stationIDs := make([]string, 0, len(stations))
		for _, st := range stations {
			stationIDs = append(stationIDs, st.ID)
		}

		cnt := 0
		for i := 0; i < n; i++ {
			appt := utils.GenerateRandomPersonalAppointment(stationIDs, day, loc)
			if err := repo.CreatePersonalAppointment(context.Background(), appt); err != nil {
				slog.Error("无法插入内部预约", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入内部预约成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
