package infrastructure

import (
	"fmt"

	"salesdash/internal/orders/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// TransactionFileRepository lit et écrit les tables brute et nettoyée au format CSV
type TransactionFileRepository struct{}

// NewTransactionFileRepository crée une nouvelle instance du repository fichier
func NewTransactionFileRepository() *TransactionFileRepository {
	return &TransactionFileRepository{}
}

// ReadRaw charge la table brute entière.
// Erreurs fatales: fichier absent (*fs.PathError), fichier vide (ErrEmptyHeader),
// colonne obligatoire absente (*SchemaError).
// Une ligne mal formée n'est pas fatale: elle est écartée et relevée dans MalformedLines.
func (r *TransactionFileRepository) ReadRaw(path string) (*domain.RawTable, error) {
	file, err := sharedinfra.ReadCSVWith(path, sharedinfra.ReadOptions{
		LazyQuotes:    true,
		SkipMalformed: true,
	})
	if err != nil {
		return nil, fmt.Errorf("read raw table: %w", err)
	}

	index, err := domain.NewHeaderIndex(path, file.Header, domain.RawColumns())
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, len(file.Rows))
	for i, row := range file.Rows {
		records[i] = domain.RawRecordFromRow(index, row)
	}
	return &domain.RawTable{Records: records, MalformedLines: file.MalformedLines}, nil
}

// WriteRaw écrit la table brute (sortie du générateur)
func (r *TransactionFileRepository) WriteRaw(path string, records []domain.RawRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}
	return sharedinfra.WriteCSV(path, sharedinfra.WriteOptions{
		Headers: domain.RawColumns(),
		Records: rows,
	})
}

// WriteCleaned écrit la table nettoyée (19 colonnes)
func (r *TransactionFileRepository) WriteCleaned(path string, txs []domain.Transaction) error {
	rows := make([][]string, len(txs))
	for i := range txs {
		rows[i] = txs[i].ToCSVRow()
	}
	return sharedinfra.WriteCSV(path, sharedinfra.WriteOptions{
		Headers: domain.CleanedColumns(),
		Records: rows,
	})
}

// ReadCleaned relit la table nettoyée pour l'agrégation.
// Une ligne illisible est une erreur: le fichier est censé avoir été produit par le nettoyage.
func (r *TransactionFileRepository) ReadCleaned(path string) ([]domain.Transaction, error) {
	file, err := sharedinfra.ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("read cleaned table: %w", err)
	}

	index, err := domain.NewHeaderIndex(path, file.Header, domain.CleanedColumns())
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, len(file.Rows))
	for i, row := range file.Rows {
		tx, err := domain.TransactionFromCSVRow(index, row)
		if err != nil {
			// ligne 1 = en-tête
			return nil, fmt.Errorf("%s: line %d: %w", path, i+2, err)
		}
		txs[i] = tx
	}
	return txs, nil
}
