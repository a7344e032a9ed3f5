package services

import (
	"fmt"
	"sort"
	"strings"

	"funda-scraper/models"
	"funda-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(records []*models.CanonicalRecord) *models.InsightReport {
	report := &models.InsightReport{
		RecordsByCity: make(map[string]int),
		RecordsByType: make(map[models.PropertyType]int),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalRecords = len(records)

	var priced []*models.CanonicalRecord
	var perM2Total float64
	var perM2Count int

	for _, r := range records {
		switch r.Status {
		case models.StatusSold:
			report.SoldCount++
		case models.StatusRented:
			report.RentedCount++
		default:
			report.ActiveCount++
		}
		if r.Price != nil && *r.Price > 0 {
			priced = append(priced, r)
		}
		if r.PricePerM2 != nil && *r.PricePerM2 > 0 {
			perM2Total += *r.PricePerM2
			perM2Count++
		}
		if r.City != "" {
			report.RecordsByCity[r.City]++
		}
		report.RecordsByType[r.PropertyType]++
	}

	if len(priced) > 0 {
		report.MinPrice = *priced[0].Price
		report.MaxPrice = *priced[0].Price
		report.MostExpensive = priced[0]
		var total float64
		for _, r := range priced {
			total += *r.Price
			if *r.Price < report.MinPrice {
				report.MinPrice = *r.Price
			}
			if *r.Price > report.MaxPrice {
				report.MaxPrice = *r.Price
				report.MostExpensive = r
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	if perM2Count > 0 {
		report.AvgPricePerM2 = round2(perM2Total / float64(perM2Count))
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 LISTING BATCH INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings : \033[1m%d\033[0m\n", r.TotalRecords)
	fmt.Printf("  Active         : \033[1m%d\033[0m\n", r.ActiveCount)
	fmt.Printf("  Sold           : \033[1m%d\033[0m\n", r.SoldCount)
	fmt.Printf("  Rented         : \033[1m%d\033[0m\n", r.RentedCount)
	fmt.Println()

	// Price Stats
	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Printf("  Average price : \033[1;32m€%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m€%.2f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m€%.2f\033[0m\n", r.MaxPrice)
		if r.AvgPricePerM2 > 0 {
			fmt.Printf("  Average €/m²  : \033[1;32m€%.2f\033[0m\n", r.AvgPricePerM2)
		}
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Street, 50))
		fmt.Printf("  City  : %s\n", r.MostExpensive.City)
		fmt.Printf("  Type  : %s\n", r.MostExpensive.PropertyType)
		fmt.Printf("  Price : \033[1;31m€%.2f\033[0m\n", *r.MostExpensive.Price)
		fmt.Println()
	}

	// Listings by type
	fmt.Printf("\033[1;33m  Listings by Property Type\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RecordsByType) == 0 {
		fmt.Printf("  No type data\n")
	} else {
		type typeCount struct {
			kind  models.PropertyType
			count int
		}
		var kinds []typeCount
		for k, cnt := range r.RecordsByType {
			kinds = append(kinds, typeCount{k, cnt})
		}
		sort.Slice(kinds, func(i, j int) bool {
			if kinds[i].count == kinds[j].count {
				return kinds[i].kind < kinds[j].kind
			}
			return kinds[i].count > kinds[j].count
		})
		for _, tc := range kinds {
			fmt.Printf("  %-20s %d\n", tc.kind, tc.count)
		}
	}
	fmt.Println()

	// Listings by City
	fmt.Printf("\033[1;33m  Listings by City\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RecordsByCity) == 0 {
		fmt.Printf("  No city data\n")
	} else {
		type cityCount struct {
			city  string
			count int
		}
		var cities []cityCount
		for city, cnt := range r.RecordsByCity {
			cities = append(cities, cityCount{city, cnt})
		}
		sort.Slice(cities, func(i, j int) bool {
			return cities[i].count > cities[j].count
		})
		for _, cc := range cities {
			bar := strings.Repeat("█", cc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(cc.city, 28), bar, cc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
