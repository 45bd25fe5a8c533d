package main

import (
	"customs-web/internal/service"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	outputDir := filepath.Join("storage", "uploads")
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	excelService := service.NewExcelService()

	alcoholPath := filepath.Join(outputDir, "alcohol_batch_sample.xlsx")
	if err := excelService.GenerateAlcoholTemplate(alcoholPath); err != nil {
		fmt.Printf("Error generating alcohol sample: %v\n", err)
		return
	}
	fmt.Printf("✓ Alcohol sample created: %s\n", alcoholPath)

	vehiclePath := filepath.Join(outputDir, "vehicle_batch_sample.xlsx")
	if err := excelService.GenerateVehicleTemplate(vehiclePath); err != nil {
		fmt.Printf("Error generating vehicle sample: %v\n", err)
		return
	}
	fmt.Printf("✓ Vehicle sample created: %s\n", vehiclePath)

	fmt.Println("\nUpload either file via POST /api/v1/batches/upload to try a batch run")
}
