package main

import (
	"errors"
	"log"
	"os"
	"time"

	enviro "github.com/And-Hobbes/EnviroHardwareCode"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
)

func main() {
	port := "/dev/ttyAMA0"
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	pms, err := enviro.OpenPMS5003(port, 9600, 4*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	defer pms.Close()

	csv := enviro.NewCSVWriter(os.Stdout)
	defer csv.Close()
	if err := csv.WriteHeader("pm1", "pm25", "pm10", "pm1_atm", "pm25_atm", "pm10_atm",
		"gt0_3um", "gt0_5um", "gt1_0um", "gt2_5um", "gt5_0um", "gt10um"); err != nil {
		log.Fatal(err)
	}

	for {
		f, err := pms.ReadFrame()
		switch {
		case errors.Is(err, monitor.ErrSensorTimeout):
			log.Printf("Timed out waiting for PMS5003 frame")
		case err != nil:
			log.Printf("Error reading PMS5003: %v", err)
		default:
			if err := csv.WriteRow(time.Now(),
				float64(f.PM1CF), float64(f.PM25CF), float64(f.PM10CF),
				float64(f.PM1Atm), float64(f.PM25Atm), float64(f.PM10Atm),
				float64(f.Count03), float64(f.Count05), float64(f.Count10),
				float64(f.Count25), float64(f.Count50), float64(f.Count100)); err != nil {
				log.Fatal(err)
			}
		}
		time.Sleep(2 * time.Second)
	}
}
