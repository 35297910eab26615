package main

import (
	"log"
	"os"
	"time"

	enviro "github.com/And-Hobbes/EnviroHardwareCode"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	bme, err := enviro.NewBME280(bus)
	if err != nil {
		log.Fatal(err)
	}
	defer bme.Halt()

	csv := enviro.NewCSVWriter(os.Stdout)
	defer csv.Close()
	if err := csv.WriteHeader("temperature_c", "pressure_hpa", "humidity_pct"); err != nil {
		log.Fatal(err)
	}

	for {
		r, err := bme.Read()
		if err != nil {
			log.Printf("Error reading BME280: %v", err)
		} else if err := csv.WriteRow(time.Now(), r.Temperature, r.Pressure, r.Humidity); err != nil {
			log.Fatal(err)
		}
		time.Sleep(2 * time.Second)
	}
}
