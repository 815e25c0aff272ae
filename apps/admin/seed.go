package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
)

// sample records per resource, enough to browse every list page.
var fixtures = map[string][]activity.Record{
	"publications": {
		{
			"title": "Energy-Aware Scheduling for Edge Clusters", "venue": "IEEE TPDS", "kind": "journal",
			"year": 2025, "facultyInvolved": []interface{}{map[string]interface{}{"name": "A. Deka", "institute": "IIT Guwahati"}},
			"published": true,
		},
		{
			"title": "Sparse Graph Embeddings at Scale", "venue": "NeurIPS", "kind": "conference", "year": 2024,
			"facultyInvolved": []interface{}{map[string]interface{}{"name": "R. Sen", "institute": ""}},
		},
	},
	"patents": {
		{
			"title": "Low-power sensor mesh protocol", "applicationNumber": "IN2024/0871", "status": "filed",
			"filingDate": "2024-11-02",
			"facultyInvolved": []interface{}{map[string]interface{}{"name": "A. Deka", "institute": "IIT Guwahati"}},
		},
	},
	"announcements": {
		{"title": "PhD admissions open", "body": "Applications close at the end of the month.", "category": "academic", "published": true},
		{"title": "Annual tech fest", "body": "Volunteers needed.", "category": "event"},
	},
	"assets": {
		{"name": "GPU server", "category": "computer", "location": "Lab 2", "cost": 450000,
			"warrantyPeriod": map[string]interface{}{"years": 3, "months": 0}, "working": true},
	},
	"placements": {
		{"academicYear": "2024-25", "company": "Arista Networks", "studentsPlaced": 7, "packageLPA": 32.5, "published": true},
	},
	"faculty": {
		{"name": "Anjali Deka", "designation": "professor", "email": "adeka@dept.example.edu", "published": true},
	},
}

func (cli *commandLine) seed(ctx context.Context, owner string) error {
	for resource, recs := range fixtures {
		def, err := cli.svc.Definition(resource)
		if err != nil {
			return errors.Wrapf(err, "resolving %q", resource)
		}
		for _, rec := range recs {
			if resource == catalog.Assets().Name {
				assetID, err := catalog.NextAssetID(ctx, cli.svc)
				if err != nil {
					return err
				}
				rec["assetID"] = assetID
			}
			created, err := cli.svc.Create(ctx, def, owner, rec)
			if err != nil {
				return errors.Wrapf(err, "seeding %q", resource)
			}
			logger.Printf("seeded %s %s", resource, created.ID())
		}
	}
	return nil
}

func (cli *commandLine) publish(ctx context.Context, resource, id, owner string) error {
	def, err := cli.svc.Definition(resource)
	if err != nil {
		return errors.Wrapf(err, "resolving %q", resource)
	}
	rec, err := cli.svc.Update(ctx, def, owner, id, activity.Record{activity.KeyPublished: true})
	if err != nil {
		return err
	}
	logger.Printf("published %s %s", resource, rec.ID())
	return nil
}
