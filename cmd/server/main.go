package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/incentivar/cartela-board/config"
	"github.com/incentivar/cartela-board/pkg/otellib"
	"github.com/incentivar/cartela-board/repository"
	"github.com/incentivar/cartela-board/service/board"
	"github.com/incentivar/cartela-board/upstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

func startServer() {
	conf := config.Load()
	logger := config.NewLogger(conf.Log)

	tracerProvider, shutdown := otellib.InitOtel("cartela-board", "local", conf.Jaeger)
	defer shutdown()

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	db := conf.MySQL.MustConnect()
	provider := repository.NewProvider(db)
	snapshotRepo := repository.NewSnapshot()

	client := upstream.NewClient(conf.Upstream)
	service := board.NewService(client, provider, snapshotRepo, conf.Cache, conf.Poll)
	server := board.NewServer(service, logger)

	startHTTPServer(conf, logger, service, server)
}

func main() {
	rootCmd := cobra.Command{
		Use: "server",
	}
	rootCmd.AddCommand(
		startServerCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

func startServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the server",
		Run: func(cmd *cobra.Command, args []string) {
			startServer()
		},
	}
}

func startHTTPServer(
	conf config.Config, logger *zap.Logger, service *board.Service, server *board.Server,
) {
	fmt.Println("HTTP:", conf.Server.HTTP.ListenString())

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", promhttp.Handler())
	httpMux.Handle("/", server.Mount())

	httpServer := &http.Server{
		Addr:    conf.Server.HTTP.ListenString(),
		Handler: httpMux,
	}

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	pollCtx = otellib.ToContext(pollCtx, logger)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
		fmt.Println("Shutdown HTTP server successfully")
	}()

	go func() {
		defer wg.Done()

		service.Run(pollCtx)
		fmt.Println("Shutdown board poller successfully")
	}()

	//--------------------------------
	// Graceful Shutdown
	//--------------------------------
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, os.Kill)
	<-stop

	cancelPoll()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	if err != nil {
		panic(err)
	}

	wg.Wait()
}
