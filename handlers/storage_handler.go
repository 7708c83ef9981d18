package handlers

import (
	"log"
	"net/http"

	"github.com/facette/natsort"
	"github.com/mensah-dev/beneficiarysysbackend/assets"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
)

// StorageHandler reports on the asset store itself, independent of any single
// beneficiary record.
type StorageHandler struct {
	Store assets.Store
	Repo  repository.BeneficiaryRepositoryInterface
	Cfg   config.Config
}

type orphanReport struct {
	OrphanedBlobs  []string `json:"orphaned_blobs"`
	TotalBlobs     int      `json:"total_blobs"`
	ReferencedRows int      `json:"referenced_rows"`
}

// GetOrphanReport lists every stored blob that no beneficiary record
// references. Blobs can be left behind when a cleanup step fails mid-request;
// this report is the manual reconciliation aid for those cases.
func (sh *StorageHandler) GetOrphanReport(w http.ResponseWriter, r *http.Request) {
	profileBlobs, err := sh.Store.ListTree(sh.Cfg.ProfilesSubDir)
	if err != nil {
		log.Printf("Error walking profile blobs: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to walk asset store")
		return
	}
	documentBlobs, err := sh.Store.ListTree(sh.Cfg.DocumentsSubDir)
	if err != nil {
		log.Printf("Error walking document blobs: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to walk asset store")
		return
	}

	referenced, err := sh.Repo.ListReferencedAssetPaths()
	if err != nil {
		log.Printf("Error listing referenced asset paths: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list referenced assets")
		return
	}
	referencedSet := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		referencedSet[p] = struct{}{}
	}

	allBlobs := append(profileBlobs, documentBlobs...)
	orphans := []string{}
	for _, blob := range allBlobs {
		if _, ok := referencedSet[blob]; !ok {
			orphans = append(orphans, blob)
		}
	}
	natsort.Sort(orphans)

	writeJSON(w, http.StatusOK, orphanReport{
		OrphanedBlobs:  orphans,
		TotalBlobs:     len(allBlobs),
		ReferencedRows: len(referenced),
	})
}
