package rates

import "time"

// DefaultDocument is the built-in rate schedule, used to seed an empty
// snapshot store and as the fallback when no snapshot has been imported.
// Figures follow the published tariff and excise schedules in force for
// the 2025/26 budget year.
func DefaultDocument() Document {
	return Document{
		Version:        "2025.1",
		LastUpdated:    time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		VATRatePercent: 10,
		Alcohol: AlcoholDocument{
			Categories: map[string]AlcoholCategoryDocument{
				"wine": {
					HSCode:          "2204.21.00",
					HSDescription:   "Wine of fresh grapes, in containers holding 2 litres or less",
					DutyRatePercent: 35,
					ExciseBasis:     "per_liter",
					ExciseRate:      3.00,
				},
				"beer": {
					HSCode:          "2203.00.10",
					HSDescription:   "Beer made from malt",
					DutyRatePercent: 35,
					ExciseBasis:     "per_liter",
					ExciseRate:      1.20,
				},
				"spirits": {
					HSCode:          "2208.90.00",
					HSDescription:   "Spirits and other spirituous beverages",
					DutyRatePercent: 45,
					ExciseBasis:     "per_lpa",
					ExciseRate:      20.00,
					RequiresPermit:  true,
				},
				"liqueur": {
					HSCode:          "2208.70.00",
					HSDescription:   "Liqueurs and cordials",
					DutyRatePercent: 45,
					ExciseBasis:     "per_lpa",
					ExciseRate:      20.00,
					RequiresPermit:  true,
				},
				"other": {
					HSCode:          "2206.00.90",
					HSDescription:   "Other fermented beverages and mixtures",
					DutyRatePercent: 45,
					ExciseBasis:     "per_liter",
					ExciseRate:      2.50,
				},
			},
			UnlicensedImporterFee: 50.00,
			HighABVWarningPercent: 60,
			RestrictedABVPercent:  80,
			VolumeWarningLiters:   1000,
		},
		Vehicle: VehicleDocument{
			ValueTierThreshold: 50000,
			DutyTable: map[string][]BandRateDocument{
				"electric": {
					{Band: BandNone, HSCode: "8703.80.00", HSDescription: "Motor vehicles propelled only by electric motor", StandardRatePercent: 10, UpperRatePercent: 25},
				},
				"hybrid": {
					{Band: BandUnder1500, HSCode: "8703.60.10", HSDescription: "Hybrid vehicles, cylinder capacity not exceeding 1,500cc", StandardRatePercent: 25, UpperRatePercent: 35},
					{Band: Band1500To2000, HSCode: "8703.60.20", HSDescription: "Hybrid vehicles, cylinder capacity exceeding 1,500cc but not 2,000cc", StandardRatePercent: 30, UpperRatePercent: 40},
					{Band: BandOver2000, HSCode: "8703.60.30", HSDescription: "Hybrid vehicles, cylinder capacity exceeding 2,000cc", StandardRatePercent: 35, UpperRatePercent: 45},
				},
				"gasoline": {
					{Band: BandUnder1500, HSCode: "8703.22.00", HSDescription: "Spark-ignition vehicles, cylinder capacity not exceeding 1,500cc", StandardRatePercent: 45, UpperRatePercent: 55},
					{Band: Band1500To2000, HSCode: "8703.23.10", HSDescription: "Spark-ignition vehicles, cylinder capacity exceeding 1,500cc but not 2,000cc", StandardRatePercent: 50, UpperRatePercent: 60},
					{Band: BandOver2000, HSCode: "8703.23.90", HSDescription: "Spark-ignition vehicles, cylinder capacity exceeding 2,000cc", StandardRatePercent: 65, UpperRatePercent: 75},
				},
				"diesel": {
					{Band: BandUnder1500, HSCode: "8703.31.00", HSDescription: "Compression-ignition vehicles, cylinder capacity not exceeding 1,500cc", StandardRatePercent: 45, UpperRatePercent: 55},
					{Band: Band1500To2000, HSCode: "8703.32.10", HSDescription: "Compression-ignition vehicles, cylinder capacity exceeding 1,500cc but not 2,000cc", StandardRatePercent: 50, UpperRatePercent: 60},
					{Band: BandOver2000, HSCode: "8703.33.00", HSDescription: "Compression-ignition vehicles, cylinder capacity exceeding 2,000cc", StandardRatePercent: 65, UpperRatePercent: 75},
				},
				"commercial": {
					{Band: BandFixed, HSCode: "8704.21.00", HSDescription: "Motor vehicles for the transport of goods, g.v.w. not exceeding 5 tonnes", StandardRatePercent: 45, UpperRatePercent: 55},
				},
			},
			Concessions: []ConcessionDocument{
				{Code: "reduced_rate_20", Kind: KindPercentOff, Percent: 20, Label: "Approved commercial operator, 20% off import duty"},
				{Code: "reduced_rate_15", Kind: KindPercentOff, Percent: 15, Label: "Returning resident, 15% off import duty"},
				{Code: "flat_rate", Kind: KindFlatRate, Percent: 10, Label: "Persons with disabilities, flat 10% duty rate"},
			},
			EnvironmentalLevy: EnvironmentalLevyDocument{
				StandardFee:     200.00,
				AntiqueFee:      100.00,
				AgedRatePercent: 20,
				AgedAfterYears:  10,
				TireLevyPerTire: 5.00,
			},
			ProcessingFee: ProcessingFeeDocument{
				RatePercent: 1,
				MinFee:      10.00,
				MaxFee:      750.00,
			},
			ApprovalAgeYears:   10,
			RestrictedAgeYears: 25,
		},
	}
}

// Default converts the built-in schedule.
func Default() (*Snapshot, error) {
	return FromDocument(DefaultDocument())
}
