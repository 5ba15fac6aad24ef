// Package main 提供 nametable 命令行入口
//
// 演示用：启动一个单机名字表，发布示例绑定、订阅其变化并分页
// 枚举表内容。
package main

import (
	"flag"
	"fmt"
	"os"

	nametable "github.com/dep2p/go-nametable"
	"github.com/dep2p/go-nametable/config"
	"github.com/dep2p/go-nametable/pkg/lib/log"
	"github.com/dep2p/go-nametable/pkg/types"
)

var logger = log.Logger("nametable/cmd")

var (
	ownAddr     = flag.Uint("own-addr", 0x01001001, "本节点地址")
	configFile  = flag.String("config", "", "配置文件路径")
	pageSize    = flag.Int("page-size", 16, "枚举页大小")
	verbose     = flag.Bool("verbose", false, "输出 DEBUG 日志")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(nametable.VersionInfo())
		return
	}
	if *verbose {
		log.SetLevel(log.LevelDebug)
	}

	cfg := config.NewConfig()
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			logger.Error("读取配置文件失败", "path", *configFile, "error", err)
			os.Exit(1)
		}
		cfg, err = config.FromJSON(data)
		if err != nil {
			logger.Error("解析配置文件失败", "path", *configFile, "error", err)
			os.Exit(1)
		}
	}
	cfg.Node.OwnAddr = uint32(*ownAddr)

	sys, err := nametable.New(nametable.WithConfig(cfg))
	if err != nil {
		logger.Error("启动失败", "error", err)
		os.Exit(1)
	}
	defer sys.Close()

	if err := run(sys); err != nil {
		logger.Error("运行失败", "error", err)
		os.Exit(1)
	}
}

// run 执行演示流程
func run(sys *nametable.System) error {
	tbl := sys.NameTable()

	// 订阅类别 1000 的全区间
	sub, err := sys.Topology().Subscribe(types.NewServiceRange(1000, 0, ^uint32(0)), 0, 0)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	// 发布几个示例绑定
	tbl.Publish(1000, 0, 99, types.ScopeCluster, 100, 1)
	tbl.Publish(1000, 100, 199, types.ScopeCluster, 101, 2)
	tbl.Publish(2000, 5, 5, types.ScopeNode, 200, 3)

	for i := 0; i < 2; i++ {
		ev := <-sub.Events()
		fmt.Printf("event: %s {%d,%d,%d} port=%d must_report=%v\n",
			ev.Event, uint32(ev.Type), ev.Lower, ev.Upper, uint32(ev.Port), ev.MustReport)
	}

	// 单实例翻译
	port, node := tbl.Translate(1000, 150, 0)
	fmt.Printf("translate {1000,150} -> port=%d node=%d\n", uint32(port), uint32(node))

	// 分页枚举
	sessions := sys.DumpSessions()
	id := sessions.Begin()
	for {
		page, done, err := sessions.Next(id, *pageSize)
		if err != nil {
			return err
		}
		for i := range page {
			fmt.Printf("dump: %s\n", page[i].String())
		}
		if done {
			break
		}
	}

	stats := sys.Table().Stats()
	logger.Info("名字表状态",
		"services", stats.Services,
		"publications", stats.TotalPublications,
		"local", stats.LocalPublications)
	return nil
}
