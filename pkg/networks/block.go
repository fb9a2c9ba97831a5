package networks

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/rdb"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/yl2chen/cidranger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	OpCreateBlock byte = 0x1
	OpDeleteBlock byte = 0x2
)

const firewallChannel = "firewall"

var ranger = cidranger.NewPCTrieRanger()

type BlockEntry struct {
	Id        feedid.ID `bson:"_id" msgpack:"id" json:"id"`
	Address   string    `bson:"address" msgpack:"address" json:"address"`
	ExpiresAt int64     `bson:"expires_at" msgpack:"expires_at" json:"expires_at"`
}

func (b BlockEntry) Network() net.IPNet {
	_, network, _ := net.ParseCIDR(b.Address)
	return *network
}

// LoadBlocks fills the ranger from the database at startup.
func LoadBlocks() error {
	cur, err := db.Netblock.Find(context.TODO(), bson.M{})
	if err != nil {
		return err
	}

	entries := []BlockEntry{}
	if err := cur.All(context.TODO(), &entries); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	for _, entry := range entries {
		if entry.ExpiresAt != 0 && entry.ExpiresAt < now {
			continue
		}
		if err := ranger.Insert(entry); err != nil {
			return err
		}
	}
	return nil
}

func CreateBlock(address string, expiresAt int64) (BlockEntry, error) {
	entry := BlockEntry{
		Id:        feedid.GenId(),
		Address:   address,
		ExpiresAt: expiresAt,
	}

	if err := ranger.Insert(entry); err != nil {
		return entry, err
	}

	// Store in database
	if _, err := db.Netblock.InsertOne(context.TODO(), entry); err != nil {
		return entry, err
	}

	// Tell other instances about the block
	marshaledEntry, err := msgpack.Marshal(entry)
	if err != nil {
		return entry, err
	}
	marshaledEntry = append([]byte{OpCreateBlock}, marshaledEntry...)
	err = rdb.Client.Publish(context.TODO(), firewallChannel, marshaledEntry).Err()
	if err != nil {
		return entry, err
	}

	return entry, nil
}

func GetBlock(id feedid.ID) (BlockEntry, error) {
	var entry BlockEntry
	err := db.Netblock.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		err = ErrBlockNotFound
	}
	return entry, err
}

func DeleteBlock(entry BlockEntry) error {
	if _, err := ranger.Remove(entry.Network()); err != nil {
		return err
	}

	// Remove from database
	if _, err := db.Netblock.DeleteOne(context.TODO(), bson.M{"_id": entry.Id}); err != nil {
		return err
	}

	// Tell other instances about the unblock
	marshaledEntry, err := msgpack.Marshal(entry)
	if err != nil {
		return err
	}
	marshaledEntry = append([]byte{OpDeleteBlock}, marshaledEntry...)
	return rdb.Client.Publish(context.TODO(), firewallChannel, marshaledEntry).Err()
}

func IsBlocked(address string) (bool, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return false, nil
	}
	return ranger.Contains(ip)
}

// ListenFirewall applies block updates published by other instances.
func ListenFirewall() {
	pubsub := rdb.Client.Subscribe(context.Background(), firewallChannel)
	go func() {
		for msg := range pubsub.Channel() {
			payload := []byte(msg.Payload)
			if len(payload) < 2 {
				continue
			}

			var entry BlockEntry
			if err := msgpack.Unmarshal(payload[1:], &entry); err != nil {
				log.Println(err)
				continue
			}

			switch payload[0] {
			case OpCreateBlock:
				ranger.Insert(entry)
			case OpDeleteBlock:
				ranger.Remove(entry.Network())
			}
		}
	}()
}
