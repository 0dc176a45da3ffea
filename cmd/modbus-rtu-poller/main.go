package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	modbus "github.com/serialmodbus/modbus-serial"
	"github.com/serialmodbus/modbus-serial/frame"
	"github.com/serialmodbus/modbus-serial/serialtransport"
)

/*
Example config.json content polling two holding registers of one slave
on an RS-485 bus (read_timeout and interval are time.Duration values,
given in JSON as integer nanoseconds):

{
  "port": "/dev/ttyUSB0",
  "baud_rate": 9600,
  "mode": "rtu",
  "read_timeout": 1000000000,
  "interval": 2000000000,
  "instruments": [
    {
      "slave_address": 1,
      "fields": [
        {"name": "Voltage", "address": 5, "function_code": 3, "decimals": 1},
        {"name": "Status", "address": 6, "function_code": 3}
      ]
    }
  ]
}
*/

type config struct {
	Port        string        `json:"port" mapstructure:"port"`
	BaudRate    int           `json:"baud_rate" mapstructure:"baud_rate"`
	Mode        string        `json:"mode" mapstructure:"mode"`
	ReadTimeout time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	Interval    time.Duration `json:"interval" mapstructure:"interval"`
	Instruments []instrument  `json:"instruments" mapstructure:"instruments"`
}

type instrument struct {
	SlaveAddress uint8   `json:"slave_address" mapstructure:"slave_address"`
	Fields       []field `json:"fields" mapstructure:"fields"`
}

type field struct {
	Name         string `json:"name" mapstructure:"name"`
	Address      uint16 `json:"address" mapstructure:"address"`
	FunctionCode uint8  `json:"function_code" mapstructure:"function_code"`
	Decimals     int    `json:"decimals,omitempty" mapstructure:"decimals"`
	Signed       bool   `json:"signed,omitempty" mapstructure:"signed"`
}

// usage: ./modbus-rtu-poller -config=config.json
func main() {
	var configLoc string
	flag.StringVar(&configLoc, "config", "config.json", "path to json configuration")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	rawConfig, err := os.ReadFile(configLoc) // #nosec G304
	if err != nil {
		logger.Error("reading config.json failed", "err", err)
		return
	}

	var conf config
	if err := json.Unmarshal(rawConfig, &conf); err != nil {
		logger.Error("config json unmarshalling failed", "err", err)
		return
	}

	mode := frame.RTU
	if conf.Mode == "ascii" {
		mode = frame.ASCII
	}
	if conf.BaudRate == 0 {
		conf.BaudRate = 9600
	}
	if conf.ReadTimeout == 0 {
		conf.ReadTimeout = 1 * time.Second
	}
	if conf.Interval == 0 {
		conf.Interval = 2 * time.Second
	}

	port, err := serialtransport.Open(serialtransport.Config{
		Name:        conf.Port,
		BaudRate:    conf.BaudRate,
		ReadTimeout: conf.ReadTimeout,
	})
	if err != nil {
		logger.Error("opening serial port failed", "err", err, "port", conf.Port)
		return
	}
	defer port.Close()

	line := modbus.NewSerialLine(port,
		modbus.WithMode(mode),
		modbus.WithBaudRate(conf.BaudRate),
		modbus.WithReadTimeout(conf.ReadTimeout),
	)

	instruments := make([]*modbus.Instrument, 0, len(conf.Instruments))
	for _, ic := range conf.Instruments {
		inst, err := modbus.NewInstrument(line, ic.SlaveAddress)
		if err != nil {
			logger.Error("invalid instrument configuration", "err", err, "slave_address", ic.SlaveAddress)
			return
		}
		instruments = append(instruments, inst)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ticker := time.NewTicker(conf.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("polling ended")
			return
		case t := <-ticker.C:
			poll(logger, t, conf.Instruments, instruments)
		}
	}
}

func poll(logger *slog.Logger, t time.Time, configs []instrument, instruments []*modbus.Instrument) {
	values := map[string]any{}
	for idx, inst := range instruments {
		ic := configs[idx]
		for _, f := range ic.Fields {
			v, err := inst.ReadRegister(f.Address, f.Decimals, f.FunctionCode, f.Signed)
			if err != nil {
				logger.Error("reading field failed", "err", err, "field", f.Name, "slave_address", ic.SlaveAddress)
				continue
			}
			values[f.Name] = v
		}
	}
	if len(values) == 0 {
		return
	}
	raw, err := json.Marshal(struct {
		Time   time.Time      `json:"time"`
		Values map[string]any `json:"values"`
	}{
		Time:   t,
		Values: values,
	})
	if err != nil {
		logger.Error("failed to marshal result", "err", err)
		return
	}
	fmt.Printf("%s\n", raw)
}
